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

package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// 🎯 Transfer is one completed upload
type Transfer struct {
	Local  string // Local path as it was walked
	Remote string // Remote path in slash form
}

// 🎯 Logger writes the user-facing upload report. Completion notices go to
// out and diagnostics to errOut; both are mirrored to the zerolog logger
// in the call's context.
type Logger struct {
	out       io.Writer
	errOut    io.Writer
	arrow     *color.Color
	warn      *color.Color
	mu        sync.Mutex
	transfers []Transfer
	unknown   []string
}

// 🏭 New creates a new logger. Color is decided per writer: only a writer
// that is a terminal gets escape codes.
func New(out, errOut io.Writer) *Logger {
	return &Logger{
		out:    out,
		errOut: errOut,
		arrow:  colorFor(out, color.FgGreen),
		warn:   colorFor(errOut, color.FgYellow),
	}
}

// 🎨 colorFor returns a color that is disabled unless w is a terminal
func colorFor(w io.Writer, attr color.Attribute) *color.Color {
	c := color.New(attr)
	if color.NoColor || !isTerminal(w) {
		c.DisableColor()
	}
	return c
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, falling back to a logger on
// the process's stdout and stderr
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return New(os.Stdout, os.Stderr)
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatTransfer renders `"<local>" -> "<remote>"`
func (l *Logger) formatTransfer(t Transfer) string {
	return fmt.Sprintf("%q %s %q", t.Local, l.arrow.Sprint("->"), t.Remote)
}

// 📝 LogTransfer reports a completed upload
func (l *Logger) LogTransfer(ctx context.Context, t Transfer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.transfers = append(l.transfers, t)
	fmt.Fprintln(l.out, l.formatTransfer(t))

	zerolog.Ctx(ctx).Debug().
		Str("local", t.Local).
		Str("remote", t.Remote).
		Msg("file uploaded")
}

// 📝 LogUnknownPath reports an input that is neither a file nor a directory
func (l *Logger) LogUnknownPath(ctx context.Context, path string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.unknown = append(l.unknown, path)
	fmt.Fprintf(l.errOut, "%s %s\n", l.warn.Sprint("unknown path:"), path)

	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("skipping unknown path")
}

// Transfers returns every transfer reported so far.
func (l *Logger) Transfers() []Transfer {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Transfer(nil), l.transfers...)
}

// UnknownPaths returns every unknown path reported so far.
func (l *Logger) UnknownPaths() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.unknown...)
}
