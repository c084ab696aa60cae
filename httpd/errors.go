package httpd

import "errors"

var (
	// ErrSent is returned by Send when the response has already been
	// written; a response goes onto the wire exactly once.
	ErrSent = errors.New("httpd: response already sent")

	// ErrServerClosed is returned by Serve and ListenAndServe after
	// Shutdown.
	ErrServerClosed = errors.New("httpd: server closed")
)
