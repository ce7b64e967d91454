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
	"net"

	"github.com/pkg/sftp"
	"github.com/rs/zerolog"
	"github.com/walteh/ftpmirror/pkg/config"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

func init() {
	Register(config.ProtocolSFTP, DialSFTP)
}

// sftpClient is the subset of *sftp.Client used by sftpSession.
type sftpClient interface {
	Mkdir(path string) error
	Create(path string) (io.WriteCloser, error)
	Close() error
}

// sftpClientWrapper narrows *sftp.Client to sftpClient.
type sftpClientWrapper struct {
	client *sftp.Client
}

var _ sftpClient = (*sftpClientWrapper)(nil)

func (w *sftpClientWrapper) Mkdir(path string) error { return w.client.Mkdir(path) }
func (w *sftpClientWrapper) Close() error            { return w.client.Close() }
func (w *sftpClientWrapper) Create(path string) (io.WriteCloser, error) {
	return w.client.Create(path)
}

// 🔐 sftpSession runs Session calls over an SFTP subsystem
type sftpSession struct {
	client sftpClient
	conn   io.Closer
}

var _ Session = (*sftpSession)(nil)

// 🔌 DialSFTP opens an SSH connection with password auth and starts SFTP.
func DialSFTP(ctx context.Context, settings *config.Settings) (Session, error) {
	logger := zerolog.Ctx(ctx)

	hostKeyCallback, err := hostKeyCallback(ctx, settings)
	if err != nil {
		return nil, err
	}

	sshConfig := &ssh.ClientConfig{
		User:            settings.User,
		Auth:            []ssh.AuthMethod{ssh.Password(settings.Password)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         settings.DialTimeout(),
	}

	logger.Debug().Str("address", settings.Address()).Msg("dialing sftp server")

	dialer := net.Dialer{Timeout: settings.DialTimeout()}
	netConn, err := dialer.DialContext(ctx, "tcp", settings.Address())
	if err != nil {
		return nil, errors.Errorf("dialing: %w", err)
	}

	ncc, chans, reqs, err := ssh.NewClientConn(netConn, settings.Address(), sshConfig)
	if err != nil {
		netConn.Close()
		return nil, errors.Errorf("ssh handshake as %s: %w", settings.User, err)
	}
	sshClient := ssh.NewClient(ncc, chans, reqs)

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, errors.Errorf("starting sftp subsystem: %w", err)
	}

	logger.Debug().Str("user", settings.User).Msg("sftp session ready")
	return &sftpSession{client: &sftpClientWrapper{client: client}, conn: sshClient}, nil
}

func hostKeyCallback(ctx context.Context, settings *config.Settings) (ssh.HostKeyCallback, error) {
	if settings.KnownHosts != "" {
		callback, err := knownhosts.New(settings.KnownHosts)
		if err != nil {
			return nil, errors.Errorf("loading known_hosts file %s: %w", settings.KnownHosts, err)
		}
		return callback, nil
	}

	zerolog.Ctx(ctx).Warn().Str("host", settings.Host).Msg("no known_hosts configured, host key verification disabled")
	return ssh.InsecureIgnoreHostKey(), nil
}

func (s *sftpSession) MakeDir(ctx context.Context, path string) error {
	if err := s.client.Mkdir(path); err != nil {
		return errors.Errorf("mkdir %s: %w", path, err)
	}
	return nil
}

func (s *sftpSession) Store(ctx context.Context, path string, r io.Reader) error {
	f, err := s.client.Create(path)
	if err != nil {
		return errors.Errorf("creating %s: %w", path, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return errors.Errorf("writing %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return errors.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func (s *sftpSession) Quit(ctx context.Context) error {
	clientErr := s.client.Close()
	connErr := s.conn.Close()
	if clientErr != nil {
		return errors.Errorf("closing sftp client: %w", clientErr)
	}
	if connErr != nil {
		return errors.Errorf("closing ssh connection: %w", connErr)
	}
	return nil
}
