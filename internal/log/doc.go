// Package log builds the slog loggers used by nrcap.
//
// The CLI logs human-readable text to stderr at Warn, or Debug with
// --verbose. The HTTP server logs JSON, optionally to a size-rotated file
// managed by lumberjack.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	w := log.NewRotatingWriter("/var/log/nrcap/server.log")
//	defer w.Close()
//	logger = log.NewJSONLogger(w, slog.LevelInfo)
package log
