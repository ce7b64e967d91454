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

package session

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/walteh/ftpmirror/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// ErrUnknownProtocol is returned by Dial when no dialer is registered for
// the configured protocol.
var ErrUnknownProtocol = errors.Base("unknown protocol")

// Session is a connected, authenticated remote file-transfer session.
// Calls are not safe for concurrent use.
type Session interface {
	// MakeDir creates a single remote directory
	MakeDir(ctx context.Context, path string) error
	// Store writes the contents of r to the remote path
	Store(ctx context.Context, path string, r io.Reader) error
	// Quit ends the session
	Quit(ctx context.Context) error
}

// Dialer connects and authenticates a Session. A returned Session is ready
// for uploads (binary mode already set where the protocol has one).
type Dialer func(ctx context.Context, settings *config.Settings) (Session, error)

var registry = map[string]Dialer{}

// Register makes a dialer available for the given protocol name.
func Register(protocol string, d Dialer) {
	registry[strings.ToLower(protocol)] = d
}

// Dial opens a session using the dialer registered for settings.Protocol.
func Dial(ctx context.Context, settings *config.Settings) (Session, error) {
	d, ok := registry[strings.ToLower(settings.Protocol)]
	if !ok {
		options := []string{}
		for k := range registry {
			options = append(options, k)
		}
		sort.Strings(options)
		return nil, errors.Errorf("%w %q, options: %s", ErrUnknownProtocol, settings.Protocol, strings.Join(options, ", "))
	}

	s, err := d(ctx, settings)
	if err != nil {
		return nil, errors.Errorf("connecting to %s: %w", settings, err)
	}
	return s, nil
}
