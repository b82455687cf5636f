// Package logging builds the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Options select the output format and verbosity of the root logger.
type Options struct {
	// Verbose lowers the level from Info to Debug.
	Verbose bool
	// JSON emits machine-readable lines instead of the console format.
	JSON bool
}

// New returns a logger writing to w. Console output carries human-readable
// timestamps; JSON output is one event per line for log shippers.
func New(w io.Writer, opts Options) zerolog.Logger {
	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	if !opts.JSON {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// NewStderr is the common case: a logger on standard error, keeping stdout
// free for machine-consumable output.
func NewStderr(opts Options) zerolog.Logger {
	return New(os.Stderr, opts)
}
