package log

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"strings"
	"time"
)

// slog levels plus trace below debug and crit above error.
const (
	levelMaxVerbosity slog.Level = math.MinInt
	LevelTrace        slog.Level = -8
	LevelDebug                   = slog.LevelDebug
	LevelInfo                    = slog.LevelInfo
	LevelWarn                    = slog.LevelWarn
	LevelError                   = slog.LevelError
	LevelCrit         slog.Level = 12
)

var levels = []struct {
	level   slog.Level
	name    string
	aliases []string
}{
	{levelMaxVerbosity, "max", []string{"maxverbosity"}},
	{LevelTrace, "trace", nil},
	{LevelDebug, "debug", nil},
	{LevelInfo, "info", nil},
	{LevelWarn, "warn", []string{"warning"}},
	{LevelError, "error", nil},
	{LevelCrit, "crit", []string{"critical"}},
}

// ParseLevel accepts the level names case-insensitively.
func ParseLevel(lvl string) (slog.Level, error) {
	s := strings.ToLower(strings.TrimSpace(lvl))
	for _, l := range levels {
		if s == l.name {
			return l.level, nil
		}
		for _, a := range l.aliases {
			if s == a {
				return l.level, nil
			}
		}
	}
	return 0, fmt.Errorf("invalid level: %s", lvl)
}

func LevelString(l slog.Level) string {
	for _, e := range levels {
		if e.level == l {
			return e.name
		}
	}
	return "unknown"
}

// LevelAlignedString is the upper case level name padded to five columns.
func LevelAlignedString(l slog.Level) string {
	return fmt.Sprintf("%-5s", strings.ToUpper(LevelString(l)))
}

// Logger tags every record with the encoder module that produced it.
type Logger interface {
	With(kv ...any) Logger
	Write(level slog.Level, module, msg string, kv ...any)
	Enabled(ctx context.Context, level slog.Level) bool
	Handler() slog.Handler

	Trace(module, msg string, kv ...any)
	Debug(module, msg string, kv ...any)
	Info(module, msg string, kv ...any)
	Warn(module, msg string, kv ...any)
	Error(module, msg string, kv ...any)
}

type logger struct {
	inner *slog.Logger
}

func NewLogger(h slog.Handler) Logger {
	return &logger{inner: slog.New(h)}
}

func (l *logger) Handler() slog.Handler { return l.inner.Handler() }

func (l *logger) With(kv ...any) Logger { return &logger{l.inner.With(kv...)} }

func (l *logger) Enabled(ctx context.Context, level slog.Level) bool {
	return l.inner.Enabled(ctx, level)
}

// Write records the caller of the package level function or method, three
// frames up, and puts module ahead of the caller's attributes.
func (l *logger) Write(level slog.Level, module, msg string, kv ...any) {
	ctx := context.Background()
	if !l.inner.Enabled(ctx, level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	if module != "" {
		r.AddAttrs(slog.String("module", module))
	}
	r.Add(kv...)
	_ = l.inner.Handler().Handle(ctx, r)
}

func (l *logger) Trace(module, msg string, kv ...any) { l.Write(LevelTrace, module, msg, kv...) }
func (l *logger) Debug(module, msg string, kv ...any) { l.Write(LevelDebug, module, msg, kv...) }
func (l *logger) Info(module, msg string, kv ...any)  { l.Write(LevelInfo, module, msg, kv...) }
func (l *logger) Warn(module, msg string, kv ...any)  { l.Write(LevelWarn, module, msg, kv...) }
func (l *logger) Error(module, msg string, kv ...any) { l.Write(LevelError, module, msg, kv...) }
