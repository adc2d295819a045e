package redis

import "errors"

var (
	ErrConnectionFailed = errors.New("redis: failed to open connection")
	ErrParseConfig      = errors.New("redis: failed to parse connection url")
)
