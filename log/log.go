// Package log wraps log/slog with the level set and Tag convention used
// throughout the forwarder: every log call is rooted at the component that
// emitted it (a strategy, a thread, a table) so lines can be filtered and
// correlated without per-call string formatting.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Tag identifies the emitting component in a log line, e.g. a strategy's
// String() or a thread's name.
type Tag interface {
	String() string
}

type Logger struct {
	slog  *slog.Logger
	level Level
}

// Default is the package-level logger used by the Trace/Debug/.../Fatal
// helpers below; it writes text-formatted lines to stderr at LevelInfo
// until reconfigured by core.OpenLogger.
var Default = NewText(os.Stderr)

// NewText builds a Logger writing human-readable lines to w.
func NewText(w io.Writer) *Logger {
	l := &Logger{level: LevelInfo}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: (*levelVar)(&l.level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				a.Value = slog.StringValue(Level(a.Value.Any().(slog.Level)).String())
			}
			return a
		},
	})
	l.slog = slog.New(h)
	return l
}

type levelVar Level

func (l *levelVar) Level() slog.Level { return Level(*l).slog() }

func (l *Logger) SetLevel(level Level) { l.level = level }

func (l *Logger) log(level Level, tag Tag, msg string, args ...any) {
	if level < l.level {
		return
	}
	all := make([]any, 0, len(args)+2)
	if tag != nil {
		all = append(all, "from", tag.String())
	}
	all = append(all, args...)
	l.slog.Log(context.Background(), level.slog(), msg, all...)
	if level == LevelFatal {
		os.Exit(1)
	}
}

func (l *Logger) Trace(tag Tag, msg string, args ...any) { l.log(LevelTrace, tag, msg, args...) }
func (l *Logger) Debug(tag Tag, msg string, args ...any) { l.log(LevelDebug, tag, msg, args...) }
func (l *Logger) Info(tag Tag, msg string, args ...any)  { l.log(LevelInfo, tag, msg, args...) }
func (l *Logger) Warn(tag Tag, msg string, args ...any)  { l.log(LevelWarn, tag, msg, args...) }
func (l *Logger) Error(tag Tag, msg string, args ...any) { l.log(LevelError, tag, msg, args...) }
func (l *Logger) Fatal(tag Tag, msg string, args ...any) { l.log(LevelFatal, tag, msg, args...) }

func Trace(tag Tag, msg string, args ...any) { Default.Trace(tag, msg, args...) }
func Debug(tag Tag, msg string, args ...any) { Default.Debug(tag, msg, args...) }
func Info(tag Tag, msg string, args ...any)  { Default.Info(tag, msg, args...) }
func Warn(tag Tag, msg string, args ...any)  { Default.Warn(tag, msg, args...) }
func Error(tag Tag, msg string, args ...any) { Default.Error(tag, msg, args...) }
func Fatal(tag Tag, msg string, args ...any) { Default.Fatal(tag, msg, args...) }
