package auth

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidCredentials indicates the authorize callback rejected the
	// submitted credentials. It is deliberately vague; the response never
	// reveals why.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrStateMismatch indicates the OAuth callback state did not match
	// the stored state cookie. The flow must restart from phase one.
	ErrStateMismatch = errors.New("auth: oauth state mismatch")

	// ErrInvalidCode indicates the authorization code exchange failed.
	ErrInvalidCode = errors.New("auth: invalid authorization code")
)

// Error is a classified, user-facing HTTP error. Authorize callbacks may
// return one to control the response status; any other error is downgraded
// to a generic bad request so internals never leak.
type Error struct {
	Status  int
	Message string
}

// NewError creates a user-facing HTTP error. An empty message defaults to
// the standard status text.
func NewError(status int, message string) *Error {
	if message == "" {
		message = http.StatusText(status)
	}
	return &Error{Status: status, Message: message}
}

func (e *Error) Error() string {
	return fmt.Sprintf("auth: %d %s", e.Status, e.Message)
}
