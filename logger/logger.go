// Package logger provides the colored, prefixed loggers used by every service.
//
// Each line looks like:
//
//	2025/02/08 11:01:49 [BOARD] [INFO] fetched 3 notes
//
// where the prefix is painted with the logger color and the level with the level color.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/beka-birhanu/wired/config"
)

var (
	ErrEmptyPrefix = errors.New("logger prefix is empty")
	ErrNilWriter   = errors.New("logger writer is nil")
)

// Logger writes leveled lines under a fixed colored prefix.
type Logger struct {
	prefix string
	out    *log.Logger
}

// New creates a Logger writing to w.
func New(prefix string, color string, w io.Writer) (*Logger, error) {
	if prefix == "" {
		return nil, ErrEmptyPrefix
	}
	if w == nil {
		return nil, ErrNilWriter
	}

	return &Logger{
		prefix: fmt.Sprintf("%s[%s]%s", color, prefix, config.ColorReset),
		out:    log.New(w, "", log.LstdFlags),
	}, nil
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.print(config.LogInfoColor, "INFO", msg)
}

// Warning logs a recoverable problem.
func (l *Logger) Warning(msg string) {
	l.print(config.LogWarningColor, "WARNING", msg)
}

// Error logs a failed operation.
func (l *Logger) Error(msg string) {
	l.print(config.LogErrorColor, "ERROR", msg)
}

func (l *Logger) print(color, level, msg string) {
	l.out.Printf("%s %s[%s]%s %s", l.prefix, color, level, config.LogColorReset, msg)
}

// Discard returns a Logger that drops everything. Handy in tests.
func Discard() *Logger {
	l, _ := New("DISCARD", "", io.Discard)
	return l
}
