package logging

import (
	"io"
	"log/slog"
	"os"
)

var (
	// Logger backs the package-level logging functions. It targets stderr
	// so stdout stays reserved for the user-facing output in user.go.
	Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Verbose mirrors the --verbose flag after Setup.
	Verbose bool
)

// Setup reconfigures the logger from the root command's persistent flags.
// Verbose lowers the level to debug; jsonOutput switches to JSON lines for
// machine consumption. A nil writer targets stderr.
func Setup(verbose bool, jsonOutput bool, w io.Writer) {
	Verbose = verbose

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if w == nil {
		w = os.Stderr
	}

	if jsonOutput {
		Logger = slog.New(slog.NewJSONHandler(w, opts))
	} else {
		Logger = slog.New(slog.NewTextHandler(w, opts))
	}
}

// Debug logs pipeline internals, visible only with --verbose.
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Warn logs a condition worth noticing that does not abort the run.
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Error logs a failure; callers still return the error itself.
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

// With returns a child logger carrying fixed attributes, handy for tagging
// every line of one deployment run with its sandbox alias.
func With(args ...any) *slog.Logger {
	return Logger.With(args...)
}
