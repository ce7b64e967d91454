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

package remotepath

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromLocal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		sep  rune
		want string
	}{
		{name: "windows_path", in: `a\b\c.txt`, sep: '\\', want: "a/b/c.txt"},
		{name: "windows_repeated_separators", in: `a\\b`, sep: '\\', want: "a//b"},
		{name: "windows_dot_segments_kept", in: `.\a\..\b`, sep: '\\', want: "./a/../b"},
		{name: "unix_identity", in: "/a/b/c", sep: '/', want: "/a/b/c"},
		{name: "empty", in: "", sep: '\\', want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fromLocal(tt.in, tt.sep)
			assert.Equal(t, tt.want, got, "translated path should match")
			assert.NotContains(t, got, `\`, "translated path should not contain native separators")
			assert.Len(t, got, len(tt.in), "translation should be length preserving")
		})
	}
}

func TestFromLocalHostSeparator(t *testing.T) {
	in := strings.Join([]string{"root", "sub", "file.txt"}, "/")
	assert.Equal(t, "root/sub/file.txt", FromLocal(in), "slash paths pass through unchanged")
}

func TestJoin(t *testing.T) {
	tests := []struct {
		name string
		base string
		elem string
		want string
	}{
		{name: "simple", base: "remote", elem: "a.txt", want: "remote/a.txt"},
		{name: "empty_base", base: "", elem: "a.txt", want: "a.txt"},
		{name: "empty_elem", base: "remote", elem: "", want: "remote"},
		{name: "base_with_trailing_separator", base: "remote/", elem: "a.txt", want: "remote/a.txt"},
		{name: "no_normalization", base: "remote", elem: "./x/../y", want: "remote/./x/../y"},
		{name: "absolute_elem", base: "remote", elem: "/home/x", want: "remote/home/x"},
		{name: "root_base", base: "/", elem: "x", want: "/x"},
		{name: "inner_repeats_kept", base: "remote", elem: "a//b", want: "remote/a//b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Join(tt.base, tt.elem), "joined path should match")
		})
	}
}

func TestAncestors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "nested_file", in: "newdir/sub/file.txt", want: []string{"newdir", "newdir/sub"}},
		{name: "top_level_file", in: "file.txt", want: nil},
		{name: "absolute_path", in: "/srv/up/file.txt", want: []string{"/srv", "/srv/up"}},
		{name: "repeated_separators", in: "a//b/f", want: []string{"a", "a/b"}},
		{name: "root_file", in: "/file.txt", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Ancestors(tt.in), "ancestors should match")
		})
	}
}
