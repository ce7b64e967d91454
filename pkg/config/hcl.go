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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".hcl")
}

// 📝 Parse parses the settings from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Settings, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	type hclSettings struct {
		Host       string   `hcl:"host"`
		Port       int      `hcl:"port"`
		User       string   `hcl:"user,optional"`
		Password   string   `hcl:"password,optional"`
		Protocol   string   `hcl:"protocol,optional"`
		Timeout    string   `hcl:"timeout,optional"`
		KnownHosts string   `hcl:"known_hosts,optional"`
		Exclude    []string `hcl:"exclude,optional"`
	}

	var hs hclSettings
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hs)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	return &Settings{
		Host:       hs.Host,
		Port:       hs.Port,
		User:       hs.User,
		Password:   hs.Password,
		Protocol:   hs.Protocol,
		Timeout:    hs.Timeout,
		KnownHosts: hs.KnownHosts,
		Exclude:    hs.Exclude,
	}, nil
}
