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

package main

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/ftpmirror/pkg/config"
	"github.com/walteh/ftpmirror/pkg/log"
	"github.com/walteh/ftpmirror/pkg/mirror"
	"github.com/walteh/ftpmirror/pkg/session"
	"gitlab.com/tozd/go/errors"
)

// handler holds the flag values and the collaborators of one run
type handler struct {
	configFile string
	remoteDir  string
	debug      bool

	// set once cobra has accepted the flags and arguments
	started bool

	// overridden in tests
	dial session.Dialer
	fs   afero.Fs
}

// newRootCmd builds the ftpmirror command
func newRootCmd(h *handler) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ftpmirror -f <config-file> -d <remote-base-dir> [paths...]",
		Short: "Upload files and directory trees to a remote server",
		Long: `ftpmirror uploads each path to the remote base directory, keeping the
local directory layout. Remote directories are created only when an upload
needs them.

Each uploaded file is reported as "<local>" -> "<remote>" on stdout.`,
		Args:         cobra.ArbitraryArgs,
		Version:      GetVersionInfo().Version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			h.started = true
			return h.run(cmd.Context(), args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.SetVersionTemplate(FormatVersion())
	cmd.Flags().StringVarP(&h.configFile, "config", "f", "", "connection settings file (yaml, json or hcl)")
	cmd.Flags().StringVarP(&h.remoteDir, "remote-dir", "d", "", "remote base directory")
	cmd.Flags().BoolVar(&h.debug, "debug", false, "enable debug logging")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("remote-dir")

	return cmd
}

// setupLogging builds the diagnostic logger; it writes to stderr so stdout
// carries only completion notices
func (h *handler) setupLogging(stderr io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if h.debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: stderr}).Level(level).With().Timestamp().Logger()
}

func (h *handler) run(ctx context.Context, paths []string, stdout, stderr io.Writer) error {
	logger := h.setupLogging(stderr)
	ctx = logger.WithContext(ctx)
	ctx = log.NewContext(ctx, log.New(stdout, stderr))

	settings, err := config.Load(ctx, h.configFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	dial := h.dial
	if dial == nil {
		dial = session.Dial
	}

	sess, err := dial(ctx, settings)
	if err != nil {
		return errors.Errorf("connecting: %w", err)
	}
	defer func() {
		if err := sess.Quit(ctx); err != nil {
			logger.Debug().Err(err).Msg("ignoring quit error")
		}
	}()

	engine, err := mirror.New(mirror.Options{
		Session: sess,
		Fs:      h.fs,
		Exclude: settings.Exclude,
	})
	if err != nil {
		return errors.Errorf("creating mirror engine: %w", err)
	}

	if _, err := engine.UploadMany(ctx, paths, h.remoteDir); err != nil {
		return errors.Errorf("uploading: %w", err)
	}

	return nil
}
