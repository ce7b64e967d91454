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

	"github.com/jlaffaye/ftp"
	"github.com/rs/zerolog"
	"github.com/walteh/ftpmirror/pkg/config"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(config.ProtocolFTP, DialFTP)
}

// serverConn is the subset of *ftp.ServerConn used by ftpSession.
type serverConn interface {
	MakeDir(path string) error
	Stor(path string, r io.Reader) error
	Quit() error
}

var _ serverConn = (*ftp.ServerConn)(nil)

// 📡 ftpSession adapts an FTP control connection to Session
type ftpSession struct {
	conn serverConn
}

var _ Session = (*ftpSession)(nil)

// 🔌 DialFTP connects to settings.Address, logs in and switches to binary mode.
func DialFTP(ctx context.Context, settings *config.Settings) (Session, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("address", settings.Address()).Msg("dialing ftp server")

	conn, err := ftp.Dial(settings.Address(),
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(settings.DialTimeout()),
	)
	if err != nil {
		return nil, errors.Errorf("dialing: %w", err)
	}

	if err := conn.Login(settings.User, settings.Password); err != nil {
		_ = conn.Quit()
		return nil, errors.Errorf("logging in as %s: %w", settings.User, err)
	}

	if err := conn.Type(ftp.TransferTypeBinary); err != nil {
		_ = conn.Quit()
		return nil, errors.Errorf("setting binary mode: %w", err)
	}

	logger.Debug().Str("user", settings.User).Msg("ftp session ready")
	return &ftpSession{conn: conn}, nil
}

func (s *ftpSession) MakeDir(ctx context.Context, path string) error {
	if err := s.conn.MakeDir(path); err != nil {
		return errors.Errorf("MKD %s: %w", path, err)
	}
	return nil
}

func (s *ftpSession) Store(ctx context.Context, path string, r io.Reader) error {
	if err := s.conn.Stor(path, r); err != nil {
		return errors.Errorf("STOR %s: %w", path, err)
	}
	return nil
}

func (s *ftpSession) Quit(ctx context.Context) error {
	if err := s.conn.Quit(); err != nil {
		return errors.Errorf("QUIT: %w", err)
	}
	return nil
}
