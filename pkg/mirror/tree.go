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
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/ftpmirror/pkg/remotepath"
	"gitlab.com/tozd/go/errors"
)

// traversal is the state of one directory upload. rootDepth is the number
// of segments in the local root; those segments are stripped from every
// descendant before it is appended to remoteRoot.
type traversal struct {
	rootDepth  int
	remoteRoot string
}

// 🌳 UploadDirectoryTree mirrors the tree under localRoot into remoteRoot.
func (e *Engine) UploadDirectoryTree(ctx context.Context, localRoot, remoteRoot string) error {
	return e.uploadTree(ctx, localRoot, remoteRoot, &Result{})
}

func (e *Engine) uploadTree(ctx context.Context, localRoot, remoteRoot string, res *Result) error {
	t := traversal{
		rootDepth:  len(segments(localRoot)),
		remoteRoot: remoteRoot,
	}
	return e.visit(ctx, t, localRoot, res)
}

func (e *Engine) visit(ctx context.Context, t traversal, dir string, res *Result) error {
	if err := ctx.Err(); err != nil {
		return errors.Errorf("upload cancelled: %w", err)
	}

	if e.Classify(dir) != EntryDirectory {
		return nil
	}

	rel := t.relative(dir)
	remoteDir := t.remoteRoot
	for _, seg := range rel {
		remoteDir = remotepath.Join(remoteDir, seg)
	}

	if remoteDir != "" {
		e.makeDir(ctx, remoteDir)
	}
	res.Directories++

	entries, err := afero.ReadDir(e.fs, dir)
	if err != nil {
		return errors.Errorf("reading directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		child := joinLocal(dir, name)

		childRel := append(append([]string(nil), rel...), name)
		if e.excluded(ctx, childRel) {
			res.Excluded++
			continue
		}

		switch e.Classify(child) {
		case EntryDirectory:
			if err := e.visit(ctx, t, child, res); err != nil {
				return err
			}
		case EntryFile:
			if err := e.uploadFile(ctx, child, remotepath.Join(remoteDir, name), res); err != nil {
				return errors.Errorf("uploading file %s: %w", child, err)
			}
		default:
			zerolog.Ctx(ctx).Debug().Str("path", child).Msg("skipping entry that is neither file nor directory")
		}
	}

	return nil
}

func (t traversal) relative(dir string) []string {
	segs := segments(dir)
	if len(segs) <= t.rootDepth {
		return nil
	}
	return segs[t.rootDepth:]
}

func (e *Engine) excluded(ctx context.Context, rel []string) bool {
	if len(e.exclude) == 0 {
		return false
	}

	p := strings.Join(rel, "/")
	for _, pattern := range e.exclude {
		matched, err := doublestar.Match(pattern, p)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Str("path", p).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			zerolog.Ctx(ctx).Debug().Str("path", p).Str("pattern", pattern).Msg("path excluded by pattern")
			return true
		}
	}
	return false
}

// segments splits a cleaned local path. "." has no segments, so a root of
// "." and its children produced by joinLocal line up.
func segments(p string) []string {
	clean := filepath.Clean(p)
	if clean == "." {
		return nil
	}

	var out []string
	for _, s := range strings.Split(clean, string(filepath.Separator)) {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// joinLocal appends name to dir without cleaning dir, so reported local
// paths keep the spelling the user gave.
func joinLocal(dir, name string) string {
	if strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir + name
	}
	return dir + string(filepath.Separator) + name
}
