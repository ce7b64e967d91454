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

package mirror

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/ftpmirror/pkg/log"
	"github.com/walteh/ftpmirror/pkg/remotepath"
	"github.com/walteh/ftpmirror/pkg/session"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options configures an Engine
type Options struct {
	// Session is the connected remote session. Required.
	Session session.Session
	// Fs is the local filesystem. Defaults to the OS filesystem.
	Fs afero.Fs
	// Exclude holds doublestar patterns matched against paths relative to
	// the root of a directory upload.
	Exclude []string
}

// 📊 Result counts what a batch did
type Result struct {
	Files         int // completion notices emitted
	Directories   int // directories visited during tree walks
	Unknown       int // inputs that were neither a file nor a directory
	Excluded      int // entries skipped by an exclude pattern
	FailedRetries int // stores that still failed after creating parents
}

// 🎮 Engine mirrors local paths onto a remote session
type Engine struct {
	session session.Session
	fs      afero.Fs
	exclude []string
}

// 🏭 New creates an engine with the given options
func New(opts Options) (*Engine, error) {
	if opts.Session == nil {
		return nil, errors.Errorf("session is required")
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	return &Engine{
		session: opts.Session,
		fs:      opts.Fs,
		exclude: opts.Exclude,
	}, nil
}

// EntryKind classifies a local path.
type EntryKind int

const (
	EntryUnknown EntryKind = iota
	EntryFile
	EntryDirectory
)

func (k EntryKind) String() string {
	switch k {
	case EntryFile:
		return "file"
	case EntryDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// Classify stats path, following symlinks.
func (e *Engine) Classify(path string) EntryKind {
	info, err := e.fs.Stat(path)
	if err != nil {
		return EntryUnknown
	}
	return kindOf(info)
}

func kindOf(info os.FileInfo) EntryKind {
	switch {
	case info.IsDir():
		return EntryDirectory
	case info.Mode().IsRegular():
		return EntryFile
	default:
		return EntryUnknown
	}
}

// 🚀 UploadMany uploads every path under remoteBase, in order. Paths that
// are neither files nor directories are reported and skipped. The first
// fatal error stops the batch.
func (e *Engine) UploadMany(ctx context.Context, paths []string, remoteBase string) (Result, error) {
	logger := zerolog.Ctx(ctx)
	var res Result

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return res, errors.Errorf("upload cancelled: %w", err)
		}

		target := remotepath.Join(remoteBase, p)
		kind := e.Classify(p)
		logger.Debug().Str("path", p).Str("remote", target).Stringer("kind", kind).Msg("uploading path")

		switch kind {
		case EntryDirectory:
			if err := e.uploadTree(ctx, p, target, &res); err != nil {
				return res, errors.Errorf("uploading directory %s: %w", p, err)
			}
		case EntryFile:
			if err := e.uploadFile(ctx, p, target, &res); err != nil {
				return res, errors.Errorf("uploading file %s: %w", p, err)
			}
		default:
			res.Unknown++
			log.FromContext(ctx).LogUnknownPath(ctx, p)
		}
	}

	logger.Debug().
		Int("files", res.Files).
		Int("directories", res.Directories).
		Int("unknown", res.Unknown).
		Int("excluded", res.Excluded).
		Int("failed_retries", res.FailedRetries).
		Msg("batch complete")

	return res, nil
}

// makeDir is best effort; the error usually means the directory exists.
func (e *Engine) makeDir(ctx context.Context, path string) {
	remote := remotepath.FromLocal(path)
	if err := e.session.MakeDir(ctx, remote); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("remote", remote).Msg("ignoring make directory failure")
	}
}
