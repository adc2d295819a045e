// Package httpserver wraps http.Server with graceful, signal-aware
// shutdown and functional options for addresses and timeouts.
package httpserver
