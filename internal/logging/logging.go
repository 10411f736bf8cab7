package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup returns a stderr logger in the requested format: "text" for a
// human-friendly console, anything else for JSON lines.
func Setup(format string) zerolog.Logger {
	return New(os.Stderr, format)
}

// New builds a timestamped logger writing to w.
func New(w io.Writer, format string) zerolog.Logger {
	if format == "text" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

// Stage returns a child logger tagged with a pipeline stage name.
func Stage(log zerolog.Logger, stage string) zerolog.Logger {
	return log.With().Str("stage", stage).Logger()
}
