package log

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults for server log files.
const (
	// DefaultMaxSizeMB is the size at which a log file is rotated.
	DefaultMaxSizeMB = 50

	// DefaultMaxBackups is the number of rotated files kept.
	DefaultMaxBackups = 5

	// DefaultMaxAgeDays is how long rotated files are kept.
	DefaultMaxAgeDays = 28
)

// NewLogger creates a text logger for CLI use.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger creates a JSON logger at the given level for server use.
func NewJSONLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLevel converts a level name (debug, info, warn, error) to a
// slog.Level. Matching is case-insensitive.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q: use debug, info, warn or error", s)
	}
}

// RotatingOption configures NewRotatingWriter.
type RotatingOption func(*lumberjack.Logger)

// WithMaxSizeMB sets the size in megabytes at which the file is rotated.
func WithMaxSizeMB(n int) RotatingOption {
	return func(l *lumberjack.Logger) {
		l.MaxSize = n
	}
}

// WithMaxBackups sets how many rotated files are kept.
func WithMaxBackups(n int) RotatingOption {
	return func(l *lumberjack.Logger) {
		l.MaxBackups = n
	}
}

// WithCompress enables gzip compression of rotated files.
func WithCompress(compress bool) RotatingOption {
	return func(l *lumberjack.Logger) {
		l.Compress = compress
	}
}

// NewRotatingWriter returns a writer that appends to path and rotates the
// file by size. The file and its directory are created on first write.
// Callers should Close it on shutdown.
func NewRotatingWriter(path string, opts ...RotatingOption) io.WriteCloser {
	l := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    DefaultMaxSizeMB,
		MaxBackups: DefaultMaxBackups,
		MaxAge:     DefaultMaxAgeDays,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}
