// Package logging provides launchpad's structured logging core: a slog-based
// logger with a colorized handler for interactive CLI use, a plain handler
// for verbose/non-TTY output, and the per-process message deduplication that
// shell-integration mode requires so a hot shell prompt never prints the
// same line twice.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/lmittmann/tint"
)

// Level mirrors slog.Level with launchpad's own names so callers don't need
// to import log/slog directly.
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var (
	mu            sync.Mutex
	logger        = slog.New(slog.NewTextHandler(io.Discard, nil))
	shellMode     bool
	shellModeSeen = map[string]struct{}{}
)

// Init configures the default logger. When verbose is false the handler is
// set to LevelInfo; verbose=true lowers it to Debug (the CLI passes true for
// --verbose or LAUNCHPAD_VERBOSE=1). Color is used only when output is a
// terminal and verbose is false; otherwise the plain JSON handler is used.
func Init(output *os.File, verbose bool) {
	level := LevelInfo
	if verbose {
		level = LevelDebug
	}

	var handler slog.Handler
	if isTerminal(output) && !verbose {
		handler = tint.NewHandler(output, &tint.Options{Level: level, NoColor: false})
	} else {
		handler = slog.NewJSONHandler(output, &slog.HandlerOptions{Level: level})
	}

	mu.Lock()
	logger = slog.New(handler)
	mu.Unlock()
}

// InitShellMode configures logging for the shell-integration hot path:
// stderr only, each distinct message emitted at most once per process
// lifetime.
func InitShellMode(verbose bool) {
	Init(os.Stderr, verbose)
	mu.Lock()
	shellMode = true
	mu.Unlock()
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

func dedupKey(subsystem, msg string) string { return subsystem + "\x00" + msg }

// shouldEmit applies shell-mode deduplication. Must be called with mu held.
func shouldEmit(subsystem, msg string) bool {
	if !shellMode {
		return true
	}
	key := dedupKey(subsystem, msg)
	if _, seen := shellModeSeen[key]; seen {
		return false
	}
	shellModeSeen[key] = struct{}{}
	return true
}

func log(level Level, subsystem string, err error, format string, args ...interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	mu.Lock()
	l := logger
	emit := shouldEmit(subsystem, msg)
	mu.Unlock()

	if !emit {
		return
	}

	attrs := []slog.Attr{slog.String("subsystem", subsystem)}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	l.LogAttrs(context.Background(), level, msg, attrs...)
}

func Debug(subsystem, format string, args ...interface{}) { log(LevelDebug, subsystem, nil, format, args...) }
func Info(subsystem, format string, args ...interface{})  { log(LevelInfo, subsystem, nil, format, args...) }
func Warn(subsystem, format string, args ...interface{})  { log(LevelWarn, subsystem, nil, format, args...) }
func Error(subsystem string, err error, format string, args ...interface{}) {
	log(LevelError, subsystem, err, format, args...)
}

// ResetDedup clears the shell-mode deduplication set. Exposed for tests.
func ResetDedup() {
	mu.Lock()
	shellModeSeen = map[string]struct{}{}
	mu.Unlock()
}
