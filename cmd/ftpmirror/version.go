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
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// VersionInfo describes the running binary
type VersionInfo struct {
	Version   string
	GoVersion string
	Platform  string
	Revision  string
	Time      string
	Modified  bool
}

// GetVersionInfo reads the version from the embedded build info
func GetVersionInfo() *VersionInfo {
	info := &VersionInfo{
		Version:   "dev",
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	if v := buildInfo.Main.Version; v != "" && v != "(devel)" {
		info.Version = v
	}
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			info.Revision = setting.Value
		case "vcs.time":
			info.Time = setting.Value
		case "vcs.modified":
			info.Modified = setting.Value == "true"
		}
	}

	return info
}

// FormatVersion renders the output of --version
func FormatVersion() string {
	return formatVersion(GetVersionInfo())
}

func formatVersion(info *VersionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🚀 ftpmirror version info:\n")
	fmt.Fprintf(&b, "Version:   %s\n", info.Version)
	if info.Revision != "" {
		modified := ""
		if info.Modified {
			modified = " (modified)"
		}
		fmt.Fprintf(&b, "Revision:  %s%s\n", info.Revision, modified)
		fmt.Fprintf(&b, "Built:     %s\n", info.Time)
	}
	fmt.Fprintf(&b, "Go:        %s\n", info.GoVersion)
	fmt.Fprintf(&b, "Platform:  %s\n", info.Platform)
	return b.String()
}
