package logger

import (
	"io"
	"log/slog"
	"os"
)

// New creates a structured logger; everything is discarded unless debug is set
func New(debug bool) *slog.Logger {
	return NewWithWriter(debug, os.Stderr)
}

// NewWithWriter is New with an explicit destination for debug output
func NewWithWriter(debug bool, w io.Writer) *slog.Logger {
	var handler slog.Handler

	if !debug {
		handler = slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.LevelError,
		})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	return slog.New(handler)
}
