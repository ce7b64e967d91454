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
	"path/filepath"
	"strings"
)

// Separator is the separator used by every remote path.
const Separator = "/"

// 🔄 FromLocal maps a host path to the slash-separated remote form.
// Every native separator is replaced one-for-one; nothing else changes.
func FromLocal(p string) string {
	return fromLocal(p, filepath.Separator)
}

func fromLocal(p string, sep rune) string {
	if sep == '/' {
		return p
	}
	return strings.ReplaceAll(p, string(sep), Separator)
}

// 🔗 Join appends elem to base with exactly one separator between them.
// Nothing else is cleaned, so "." and ".." survive as given.
func Join(base, elem string) string {
	switch {
	case base == "":
		return elem
	case elem == "":
		return base
	default:
		return strings.TrimSuffix(base, Separator) + Separator + strings.TrimPrefix(elem, Separator)
	}
}

// 🪜 Ancestors returns the cumulative parent directories of p, shallowest
// first. "a/b/c.txt" yields ["a", "a/b"].
func Ancestors(p string) []string {
	idx := strings.LastIndex(p, Separator)
	if idx < 0 {
		return nil
	}

	prefix := ""
	if strings.HasPrefix(p, Separator) {
		prefix = Separator
	}

	var out []string
	for _, seg := range strings.Split(p[:idx], Separator) {
		if seg == "" {
			continue
		}
		if prefix == "" || prefix == Separator {
			prefix += seg
		} else {
			prefix += Separator + seg
		}
		out = append(out, prefix)
	}
	return out
}
