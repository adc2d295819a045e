package cookie

import "errors"

// ErrCookieNotFound indicates the request carries no cookie with the given name.
var ErrCookieNotFound = errors.New("cookie: not found")
