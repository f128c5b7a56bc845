// Package console renders the pipeline's categorized messages for humans,
// color-coded by level.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/equisoft-devops/provider-sql/internal/domain/interfaces"
)

var (
	debugColor   = color.New(color.FgHiBlack)
	infoColor    = color.New(color.FgCyan)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
)

// Logger writes level-tagged lines. Progress goes to out, warnings and
// errors to errOut. Debug lines appear only in verbose mode.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	errOut  io.Writer
	verbose bool
}

// New creates a logger writing to stdout and stderr.
func New(verbose bool) *Logger {
	return NewWithWriters(os.Stdout, os.Stderr, verbose)
}

// NewWithWriters creates a logger with explicit sinks.
func NewWithWriters(out, errOut io.Writer, verbose bool) *Logger {
	return &Logger{out: out, errOut: errOut, verbose: verbose}
}

// Debug logs a diagnostic message in verbose mode.
func (l *Logger) Debug(msg string, fields ...interfaces.Field) {
	if !l.verbose {
		return
	}
	l.write(l.out, debugColor, "debug", msg, fields)
}

// Info logs a progress message.
func (l *Logger) Info(msg string, fields ...interfaces.Field) {
	l.write(l.out, infoColor, "info", msg, fields)
}

// Success logs a completion message.
func (l *Logger) Success(msg string, fields ...interfaces.Field) {
	l.write(l.out, successColor, "ok", msg, fields)
}

// Warn logs a warning.
func (l *Logger) Warn(msg string, fields ...interfaces.Field) {
	l.write(l.errOut, warnColor, "warn", msg, fields)
}

// Error logs an error.
func (l *Logger) Error(msg string, fields ...interfaces.Field) {
	l.write(l.errOut, errorColor, "error", msg, fields)
}

func (l *Logger) write(w io.Writer, c *color.Color, level, msg string, fields []interfaces.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(w, "%s %s%s\n", c.Sprintf("[%s]", level), msg, renderFields(fields))
}

func renderFields(fields []interfaces.Field) string {
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	return b.String()
}
