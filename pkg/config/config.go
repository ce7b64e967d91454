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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

const (
	// ProtocolFTP is the default transfer protocol.
	ProtocolFTP = "ftp"
	// ProtocolSFTP transfers over an SSH connection.
	ProtocolSFTP = "sftp"

	defaultTimeout = 30 * time.Second
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.Base("invalid config")

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the settings from bytes
	Parse(ctx context.Context, data []byte) (*Settings, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Settings holds the connection settings for the remote server
type Settings struct {
	Host       string   `json:"host" yaml:"host"`
	Port       int      `json:"port" yaml:"port"`
	User       string   `json:"user" yaml:"user"`
	Password   string   `json:"password" yaml:"password"`
	Protocol   string   `json:"protocol,omitempty" yaml:"protocol,omitempty"`
	Timeout    string   `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	KnownHosts string   `json:"known_hosts,omitempty" yaml:"known_hosts,omitempty"`
	Exclude    []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`

	timeout time.Duration
}

// 🎯 Load reads, parses and validates the settings file at path.
// A leading "~" is expanded to the user's home directory.
func Load(ctx context.Context, path string) (*Settings, error) {
	logger := zerolog.Ctx(ctx)

	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Errorf("expanding config path: %w", err)
	}
	logger.Debug().Str("path", expanded).Msg("loading configuration")

	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(expanded)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", expanded)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks required fields and applies defaults
func (s *Settings) Validate() error {
	if s.Host == "" {
		return errors.Errorf("%w: host is required", ErrInvalid)
	}
	if s.Port < 1 || s.Port > 65535 {
		return errors.Errorf("%w: port %d is out of range 1-65535", ErrInvalid, s.Port)
	}

	s.Protocol = strings.ToLower(strings.TrimSpace(s.Protocol))
	switch s.Protocol {
	case "":
		s.Protocol = ProtocolFTP
	case ProtocolFTP, ProtocolSFTP:
	default:
		return errors.Errorf("%w: unsupported protocol %q", ErrInvalid, s.Protocol)
	}

	s.timeout = defaultTimeout
	if s.Timeout != "" {
		d, err := time.ParseDuration(s.Timeout)
		if err != nil {
			return errors.Errorf("%w: parsing timeout %q: %s", ErrInvalid, s.Timeout, err.Error())
		}
		if d <= 0 {
			return errors.Errorf("%w: timeout must be positive, got %s", ErrInvalid, d)
		}
		s.timeout = d
	}

	for _, pattern := range s.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("%w: bad exclude pattern %q", ErrInvalid, pattern)
		}
	}

	if s.KnownHosts != "" {
		expanded, err := homedir.Expand(s.KnownHosts)
		if err != nil {
			return errors.Errorf("expanding known_hosts path: %w", err)
		}
		s.KnownHosts = filepath.Clean(expanded)
	}

	return nil
}

// Address returns host:port for dialing.
func (s *Settings) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DialTimeout is the parsed timeout, or the default when unset.
func (s *Settings) DialTimeout() time.Duration {
	if s.timeout == 0 {
		return defaultTimeout
	}
	return s.timeout
}

// 📝 String returns a representation of the settings without the password
func (s *Settings) String() string {
	return fmt.Sprintf("%s://%s@%s", s.Protocol, s.User, s.Address())
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

// 🔍 CanParse accepts .yaml and .yml files, and files with no extension
func (p *YAMLParser) CanParse(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".yaml" || ext == ".yml" || ext == ""
}

// 📝 Parse parses the settings from YAML
func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Settings, error) {
	var cfg Settings
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}

	return &cfg, nil
}
