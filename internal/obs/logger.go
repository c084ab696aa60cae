// Package obs holds the process's observability plumbing: zerolog
// construction and the Meter hook interface.
package obs

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the process logger. Console form is human-readable
// for interactive runs; otherwise lines are zerolog's JSON.
func NewLogger(w io.Writer, level zerolog.Level, console bool) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
