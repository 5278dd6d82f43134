// SPDX-License-Identifier: GPL-3.0-or-later

package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
)

var isTerminal = isatty.IsTerminal(os.Stderr.Fd())

var isJournal = isStderrConnectedToJournal()

// callDepth is the number of frames between a public Logger method and the
// user call site.
const callDepth = 2

var fallback = New()

// Logger is a slog.Logger wrapper with printf-style methods and a custom
// NOTICE level. The zero value and a nil pointer are usable, they log via a
// package-level fallback logger.
type Logger struct {
	sl *slog.Logger
}

// New creates a new Logger. The handler is chosen once per process:
// a colored terminal handler when stderr is a TTY, a plain text handler
// otherwise (with timestamps suppressed under systemd-journald).
func New() *Logger {
	return &Logger{sl: slog.New(withCallDepth(callDepth, newHandler()))}
}

// With returns a Logger that includes the given attributes in each output.
func (l *Logger) With(args ...any) *Logger {
	if l.isFallback() {
		return &Logger{sl: fallback.sl.With(args...)}
	}
	return &Logger{sl: l.sl.With(args...)}
}

func (l *Logger) Error(a ...any)   { l.log(slog.LevelError, fmt.Sprint(a...)) }
func (l *Logger) Warning(a ...any) { l.log(slog.LevelWarn, fmt.Sprint(a...)) }
func (l *Logger) Notice(a ...any)  { l.log(levelNotice, fmt.Sprint(a...)) }
func (l *Logger) Info(a ...any)    { l.log(slog.LevelInfo, fmt.Sprint(a...)) }
func (l *Logger) Debug(a ...any)   { l.log(slog.LevelDebug, fmt.Sprint(a...)) }

func (l *Logger) Errorf(format string, a ...any)   { l.log(slog.LevelError, fmt.Sprintf(format, a...)) }
func (l *Logger) Warningf(format string, a ...any) { l.log(slog.LevelWarn, fmt.Sprintf(format, a...)) }
func (l *Logger) Noticef(format string, a ...any)  { l.log(levelNotice, fmt.Sprintf(format, a...)) }
func (l *Logger) Infof(format string, a ...any)    { l.log(slog.LevelInfo, fmt.Sprintf(format, a...)) }
func (l *Logger) Debugf(format string, a ...any)   { l.log(slog.LevelDebug, fmt.Sprintf(format, a...)) }

func (l *Logger) log(level slog.Level, msg string) {
	if l.isFallback() {
		fallback.sl.Log(context.Background(), level, msg)
		return
	}
	l.sl.Log(context.Background(), level, msg)
}

func (l *Logger) isFallback() bool {
	return l == nil || l.sl == nil
}
