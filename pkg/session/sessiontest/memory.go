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

// Package sessiontest provides an in-memory session.Session for tests.
package sessiontest

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/walteh/ftpmirror/pkg/config"
	"github.com/walteh/ftpmirror/pkg/session"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrExist is returned by MakeDir for a directory that already exists.
	ErrExist = errors.Base("directory exists")
	// ErrNoParent is returned when the parent of a path has not been created.
	ErrNoParent = errors.Base("parent directory does not exist")
	// ErrClosed is returned by every call after Quit.
	ErrClosed = errors.Base("session closed")
)

// Op names a recorded Session call.
type Op string

const (
	OpMakeDir Op = "MakeDir"
	OpStore   Op = "Store"
	OpQuit    Op = "Quit"
)

// Call is one recorded Session call and its outcome.
type Call struct {
	Op   Op
	Path string
	Err  error
}

// Memory is a remote server kept in memory. Like an FTP server it refuses
// to store a file whose parent directory is missing and refuses to create a
// directory twice. The root ("" or "/") always exists.
type Memory struct {
	mu     sync.Mutex
	dirs   map[string]bool
	files  map[string][]byte
	calls  []Call
	closed bool
}

var _ session.Session = (*Memory)(nil)

// NewMemory returns a Memory with the given directories already present.
func NewMemory(dirs ...string) *Memory {
	m := &Memory{
		dirs:  map[string]bool{},
		files: map[string][]byte{},
	}
	for _, d := range dirs {
		m.dirs[normalize(d)] = true
	}
	return m
}

// Dialer returns a session.Dialer that always hands out m.
func (m *Memory) Dialer() session.Dialer {
	return func(ctx context.Context, settings *config.Settings) (session.Session, error) {
		return m, nil
	}
}

func (m *Memory) MakeDir(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.makeDir(path)
	m.calls = append(m.calls, Call{Op: OpMakeDir, Path: path, Err: err})
	return err
}

func (m *Memory) makeDir(path string) error {
	if m.closed {
		return ErrClosed
	}
	p := normalize(path)
	if isRoot(p) || m.dirs[p] {
		return errors.Errorf("%w: %s", ErrExist, path)
	}
	if !m.exists(parent(p)) {
		return errors.Errorf("%w: %s", ErrNoParent, path)
	}
	m.dirs[p] = true
	return nil
}

func (m *Memory) Store(ctx context.Context, path string, r io.Reader) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.store(path, r)
	m.calls = append(m.calls, Call{Op: OpStore, Path: path, Err: err})
	return err
}

func (m *Memory) store(path string, r io.Reader) error {
	if m.closed {
		return ErrClosed
	}
	if !m.exists(parent(path)) {
		return errors.Errorf("%w: %s", ErrNoParent, path)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return errors.Errorf("reading upload: %w", err)
	}
	m.files[path] = data
	return nil
}

func (m *Memory) Quit(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	if m.closed {
		err = ErrClosed
	}
	m.closed = true
	m.calls = append(m.calls, Call{Op: OpQuit, Err: err})
	return err
}

// Files returns a copy of every stored file keyed by remote path.
func (m *Memory) Files() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]string, len(m.files))
	for k, v := range m.files {
		out[k] = string(v)
	}
	return out
}

// Dirs returns the created directories, sorted.
func (m *Memory) Dirs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.dirs))
	for d := range m.dirs {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Calls returns every recorded call in order.
func (m *Memory) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]Call(nil), m.calls...)
}

// CallsFor returns the paths of recorded calls of one kind, in order.
func (m *Memory) CallsFor(op Op) []string {
	var out []string
	for _, c := range m.Calls() {
		if c.Op == op {
			out = append(out, c.Path)
		}
	}
	return out
}

// Closed reports whether Quit has been called.
func (m *Memory) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *Memory) exists(dir string) bool {
	return isRoot(dir) || m.dirs[dir]
}

func normalize(p string) string {
	if len(p) > 1 {
		return strings.TrimRight(p, "/")
	}
	return p
}

func isRoot(p string) bool {
	return p == "" || p == "/"
}

func parent(p string) string {
	idx := strings.LastIndex(p, "/")
	switch {
	case idx < 0:
		return ""
	case idx == 0:
		return "/"
	default:
		return p[:idx]
	}
}
