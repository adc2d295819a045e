package auth

import (
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

type handlerOptions struct {
	log *slog.Logger
}

func defaultHandlerOptions() handlerOptions {
	return handlerOptions{
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// HandlerOption configures provider handlers.
type HandlerOption func(*handlerOptions)

// WithLogger sets the handler logger. Defaults to a discard logger.
func WithLogger(log *slog.Logger) HandlerOption {
	return func(o *handlerOptions) {
		if log != nil {
			o.log = log
		}
	}
}

// isFormSubmit reports whether the request is a traditional HTML form
// submission, which expects a redirect rather than a status code.
func isFormSubmit(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
}

// withErrorParam appends an error marker query parameter to a redirect
// target. The target is returned unchanged when it cannot be parsed.
func withErrorParam(target, marker string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	q.Set("error", marker)
	u.RawQuery = q.Encode()
	return u.String()
}

// respondNotInstalled handles the missing-middleware configuration error:
// loud in development to catch the misconfiguration early, opaque in
// production.
func respondNotInstalled(w http.ResponseWriter, log *slog.Logger, dev bool, where string) {
	if dev {
		msg := where + " requires the session middleware to run first; mount Manager.Middleware on the router"
		log.Error(msg)
		http.Error(w, msg, http.StatusInternalServerError)
		return
	}
	http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
}
