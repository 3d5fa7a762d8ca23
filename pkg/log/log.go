// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log prints the user-facing console output of futil and mirrors
// every line to a structured zerolog logger.
package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/futil/pkg/fserr"
	"github.com/walteh/futil/pkg/status"
)

// 🎯 Logger handles console output with a structured mirror
type Logger struct {
	zlog     zerolog.Logger
	console  io.Writer
	errs     io.Writer
	mu       sync.Mutex
	problems int
}

// 🏭 New creates a new logger. Warnings and errors go to errs, everything
// else to console; every line is mirrored to zlog.
func New(console, errs io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		errs:    errs,
	}
}

// Discard returns a logger that prints nothing
func Discard() *Logger {
	return New(io.Discard, io.Discard, zerolog.Nop())
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, or a discarding one
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return Discard()
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 LogAction logs the outcome of one file operation
func (l *Logger) LogAction(path string, outcome status.Outcome, detail string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, status.FormatAction(path, outcome, detail))

	event := l.zlog.Info()
	if outcome.Failed() {
		event = l.zlog.Warn()
	}
	event.Str("file", path).Stringer("outcome", outcome).Str("detail", detail).Msg("file action")
}

// ⚠️ Problem reports a file that could not be processed
func (l *Logger) Problem(err *fserr.EntryError) {
	l.mu.Lock()
	l.problems++
	l.mu.Unlock()
	l.Warning(err.Error())
}

// Problems returns how many problems were reported
func (l *Logger) Problems() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.problems
}

// 📊 Table renders rows under a header
func (l *Logger) Table(header []string, rows [][]string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	data := append([][]string{header}, rows...)
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(l.console).Render(); err != nil {
		return errors.Errorf("rendering table: %w", err)
	}
	l.zlog.Debug().Int("rows", len(rows)).Msg("table rendered")
	return nil
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("futil")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.errs, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.errs, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
