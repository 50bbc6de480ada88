// Package logging provides structured logging for partsim. It wraps the
// standard slog package with run id propagation through context and a level
// taken from the PARTSIM_LOG_LEVEL environment variable.
package logging

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLevel names the environment variable that sets the default level.
const EnvLevel = "PARTSIM_LOG_LEVEL"

// Logger wraps slog.Logger with context aware helpers.
type Logger struct {
	*slog.Logger
}

// Options controls handler construction.
type Options struct {
	Level slog.Level
	// JSON selects the JSON handler; the default is human readable text.
	JSON bool
}

// New builds a Logger writing to w.
func New(w io.Writer, opts Options) *Logger {
	ho := &slog.HandlerOptions{Level: opts.Level}
	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(w, ho)
	} else {
		h = slog.NewTextHandler(w, ho)
	}
	return &Logger{slog.New(h)}
}

// NewLogger returns a text logger on stderr at the level named by
// PARTSIM_LOG_LEVEL. Valid levels: DEBUG, INFO, WARN, ERROR. Defaults to WARN
// so that CLI output stays clean.
func NewLogger() *Logger {
	level, ok := ParseLevel(os.Getenv(EnvLevel))
	if !ok {
		level = slog.LevelWarn
	}
	return New(os.Stderr, Options{Level: level})
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return New(io.Discard, Options{Level: slog.LevelError + 1})
}

// ParseLevel maps a level name to a slog.Level. The second result is false
// for empty or unknown names.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug, true
	case "INFO":
		return slog.LevelInfo, true
	case "WARN", "WARNING":
		return slog.LevelWarn, true
	case "ERROR":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

func (l *Logger) logWithContext(ctx context.Context, level slog.Level, msg string, args ...any) {
	if id := RunID(ctx); id != "" {
		args = append(args, "run_id", id)
	}
	l.Log(ctx, level, msg, args...)
}

func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.logWithContext(ctx, slog.LevelDebug, msg, args...)
}

func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.logWithContext(ctx, slog.LevelInfo, msg, args...)
}

func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.logWithContext(ctx, slog.LevelWarn, msg, args...)
}

// Error logs msg with err attached under the "error" key.
func (l *Logger) Error(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err.Error())
	}
	l.logWithContext(ctx, slog.LevelError, msg, args...)
}

// With returns a Logger that adds args to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{l.Logger.With(args...)}
}

type runIDKey struct{}

// WithRunID stores a run id in ctx. An empty id is replaced by a fresh one.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = NewRunID()
	}
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID returns the run id stored in ctx, or "".
func RunID(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey{}).(string); ok {
		return id
	}
	return ""
}

// NewRunID returns 16 random hex characters.
func NewRunID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
