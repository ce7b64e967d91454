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
	"io"

	"github.com/rs/zerolog"
	"github.com/walteh/ftpmirror/pkg/log"
	"github.com/walteh/ftpmirror/pkg/remotepath"
	"gitlab.com/tozd/go/errors"
)

// 📤 UploadFile stores localPath at remotePath. A failed store is taken to
// mean the remote parent is missing: every ancestor of remotePath is
// created and the store is retried once.
func (e *Engine) UploadFile(ctx context.Context, localPath, remotePath string) error {
	return e.uploadFile(ctx, localPath, remotePath, &Result{})
}

func (e *Engine) uploadFile(ctx context.Context, localPath, remotePath string, res *Result) error {
	if err := ctx.Err(); err != nil {
		return errors.Errorf("upload cancelled: %w", err)
	}

	logger := zerolog.Ctx(ctx)

	f, err := e.fs.Open(localPath)
	if err != nil {
		return errors.Errorf("opening local file: %w", err)
	}
	defer f.Close()

	remote := remotepath.FromLocal(remotePath)

	if err := e.session.Store(ctx, remote, f); err != nil {
		logger.Debug().Err(err).Str("remote", remote).Msg("store failed, creating parent directories")

		for _, dir := range remotepath.Ancestors(remote) {
			e.makeDir(ctx, dir)
		}

		// the notice below is emitted even when the retry fails or is skipped
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			res.FailedRetries++
			logger.Warn().Err(err).Str("local", localPath).Str("remote", remote).Msg("cannot rewind local file, skipping retry")
		} else if err := e.session.Store(ctx, remote, f); err != nil {
			res.FailedRetries++
			logger.Warn().Err(err).Str("local", localPath).Str("remote", remote).Msg("store failed after creating parent directories")
		}
	}

	res.Files++
	log.FromContext(ctx).LogTransfer(ctx, log.Transfer{Local: localPath, Remote: remote})
	return nil
}
