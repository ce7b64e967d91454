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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/ftpmirror/pkg/config"
	"github.com/walteh/ftpmirror/pkg/session"
	"github.com/walteh/ftpmirror/pkg/session/sessiontest"
)

const validConfig = `
host: ftp.example.com
port: 21
user: deploy
password: hunter2
exclude:
  - "**/*.tmp"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ftp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "writing config file")
	return path
}

func localTree(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("site/css", 0o755))
	require.NoError(t, afero.WriteFile(fs, "site/index.html", []byte("index"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "site/css/main.css", []byte("css"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "site/css/cache.tmp", []byte("tmp"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "robots.txt", []byte("robots"), 0o644))
	return fs
}

func TestRun(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		args     func(t *testing.T) []string
		dial     func(mem *sessiontest.Memory) session.Dialer
		wantCode int
		validate func(t *testing.T, mem *sessiontest.Memory, stdout, stderr string)
	}{
		{
			name: "uploads_files_and_trees",
			args: func(t *testing.T) []string {
				return []string{"-f", writeConfig(t, validConfig), "-d", "public_html", "robots.txt", "site"}
			},
			wantCode: 0,
			validate: func(t *testing.T, mem *sessiontest.Memory, stdout, stderr string) {
				assert.Equal(t, map[string]string{
					"public_html/robots.txt":        "robots",
					"public_html/site/index.html":   "index",
					"public_html/site/css/main.css": "css",
				}, mem.Files(), "remote files should match the local tree")
				assert.True(t, mem.Closed(), "session should be closed")

				lines := strings.Split(strings.TrimSpace(stdout), "\n")
				require.Len(t, lines, 3, "one notice per uploaded file")
				assert.Equal(t, `"robots.txt" -> "public_html/robots.txt"`, lines[0])
				assert.Empty(t, stderr, "nothing should be written to stderr")
			},
		},
		{
			name: "unknown_path_is_reported",
			args: func(t *testing.T) []string {
				return []string{"--config", writeConfig(t, validConfig), "--remote-dir", "up", "nope", "robots.txt"}
			},
			wantCode: 0,
			validate: func(t *testing.T, mem *sessiontest.Memory, stdout, stderr string) {
				assert.Contains(t, stderr, "unknown path: nope")
				assert.Equal(t, map[string]string{"up/robots.txt": "robots"}, mem.Files())
				assert.True(t, mem.Closed(), "session should be closed")
			},
		},
		{
			name: "missing_config_flag",
			args: func(t *testing.T) []string {
				return []string{"-d", "up", "robots.txt"}
			},
			wantCode: 1,
			validate: func(t *testing.T, mem *sessiontest.Memory, stdout, stderr string) {
				assert.Contains(t, stderr, `required flag(s) "config" not set`)
				assert.Contains(t, stderr, "Usage:", "usage should be printed to stderr")
				assert.Empty(t, stdout, "stdout carries only completion notices")
				assert.Empty(t, mem.Calls(), "no session should be used")
			},
		},
		{
			name: "missing_remote_dir_flag",
			args: func(t *testing.T) []string {
				return []string{"-f", writeConfig(t, validConfig), "robots.txt"}
			},
			wantCode: 1,
			validate: func(t *testing.T, mem *sessiontest.Memory, stdout, stderr string) {
				assert.Contains(t, stderr, `required flag(s) "remote-dir" not set`)
				assert.Contains(t, stderr, "Usage:", "usage should be printed to stderr")
				assert.Empty(t, stdout, "stdout carries only completion notices")
				assert.Empty(t, mem.Calls(), "no session should be used")
			},
		},
		{
			name: "unknown_flag",
			args: func(t *testing.T) []string {
				return []string{"-f", writeConfig(t, validConfig), "-d", "up", "--passive", "robots.txt"}
			},
			wantCode: 1,
			validate: func(t *testing.T, mem *sessiontest.Memory, stdout, stderr string) {
				assert.Contains(t, stderr, "unknown flag: --passive")
				assert.Contains(t, stderr, "Usage:", "usage should be printed to stderr")
				assert.Empty(t, stdout, "stdout carries only completion notices")
				assert.Empty(t, mem.Calls(), "no session should be used")
			},
		},
		{
			name: "unparsable_config",
			args: func(t *testing.T) []string {
				return []string{"-f", writeConfig(t, `invalid: yaml: :`), "-d", "up", "robots.txt"}
			},
			wantCode: 1,
			validate: func(t *testing.T, mem *sessiontest.Memory, stdout, stderr string) {
				assert.Contains(t, stderr, "parsing config")
				assert.NotContains(t, stderr, "Usage:", "usage is only printed for command line errors")
				assert.Empty(t, stdout, "nothing should be uploaded")
				assert.Empty(t, mem.Calls(), "no session should be used")
			},
		},
		{
			name: "unreadable_config",
			args: func(t *testing.T) []string {
				return []string{"-f", filepath.Join(t.TempDir(), "missing.yaml"), "-d", "up"}
			},
			wantCode: 1,
			validate: func(t *testing.T, mem *sessiontest.Memory, stdout, stderr string) {
				assert.Contains(t, stderr, "reading config file")
			},
		},
		{
			name: "dial_failure",
			args: func(t *testing.T) []string {
				return []string{"-f", writeConfig(t, validConfig), "-d", "up", "robots.txt"}
			},
			dial: func(mem *sessiontest.Memory) session.Dialer {
				return func(ctx context.Context, settings *config.Settings) (session.Session, error) {
					return nil, assert.AnError
				}
			},
			wantCode: 1,
			validate: func(t *testing.T, mem *sessiontest.Memory, stdout, stderr string) {
				assert.Contains(t, stderr, "connecting")
				assert.Empty(t, stdout, "nothing should be uploaded")
			},
		},
		{
			name: "version_flag",
			args: func(t *testing.T) []string {
				return []string{"--version"}
			},
			wantCode: 0,
			validate: func(t *testing.T, mem *sessiontest.Memory, stdout, stderr string) {
				assert.Contains(t, stdout, "ftpmirror version info")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := sessiontest.NewMemory()
			dial := mem.Dialer()
			if tt.dial != nil {
				dial = tt.dial(mem)
			}

			h := &handler{dial: dial, fs: localTree(t)}
			stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

			code := run(context.Background(), h, tt.args(t), stdout, stderr)

			assert.Equal(t, tt.wantCode, code, "exit code should match (stderr: %s)", stderr.String())
			tt.validate(t, mem, stdout.String(), stderr.String())
		})
	}
}

func TestDebugFlagLogsToStderr(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	mem := sessiontest.NewMemory()
	h := &handler{dial: mem.Dialer(), fs: localTree(t)}
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	args := []string{"-f", writeConfig(t, validConfig), "-d", "up", "--debug", "robots.txt"}
	require.Equal(t, 0, run(context.Background(), h, args, stdout, stderr))

	assert.Equal(t, `"robots.txt" -> "up/robots.txt"`+"\n", stdout.String(), "stdout carries only notices")
	assert.Contains(t, stderr.String(), "loading configuration", "debug logs go to stderr")
}

func TestFormatVersion(t *testing.T) {
	out := formatVersion(&VersionInfo{
		Version:   "v1.2.3",
		GoVersion: "go1.23.5",
		Platform:  "linux/amd64",
		Revision:  "abc123",
		Time:      "2025-01-01T00:00:00Z",
		Modified:  true,
	})
	assert.Contains(t, out, "Version:   v1.2.3")
	assert.Contains(t, out, "Revision:  abc123 (modified)")
	assert.Contains(t, out, "Platform:  linux/amd64")

	bare := formatVersion(&VersionInfo{Version: "dev", GoVersion: "go1.23.5", Platform: "linux/amd64"})
	assert.NotContains(t, bare, "Revision", "revision is omitted when unknown")
}
