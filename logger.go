package vector

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with the fields vectors report on.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, a text handler writing to stderr at info level is used.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// LogResize logs a completed reallocation.
func (l *Logger) LogResize(kind string, from, to Index, elemSize int) {
	l.Debug("vector resized",
		"kind", kind,
		"from", from,
		"to", to,
		"element_size", elemSize,
	)
}

// LogResizeFailed logs a reallocation that was refused.
func (l *Logger) LogResizeFailed(kind string, from, to Index, err error) {
	l.Warn("vector resize failed",
		"kind", kind,
		"from", from,
		"to", to,
		"error", err,
	)
}
