package httpserver

import "errors"

var (
	// ErrServer indicates the server failed while running.
	ErrServer = errors.New("httpserver: server failed")
	// ErrShutdown indicates graceful shutdown did not complete.
	ErrShutdown = errors.New("httpserver: graceful shutdown failed")
)
