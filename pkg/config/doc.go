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

/*
Package config loads the connection settings for an upload run.

	+-----------+           +---------+
	|  Parser   |---------->|Settings |
	| yaml/json |  Parse()  |Validate |
	|   /hcl    |           +---------+
	+-----------+

Settings files are picked by extension: .yaml, .yml and extension-less
files are YAML, .json is JSON and .hcl is HCL. Unknown fields are
rejected by every format.

🔍 Example:

	host: ftp.example.com
	port: 21
	user: deploy
	password: hunter2
	protocol: ftp        # or sftp
	timeout: 30s
	exclude:
	  - "tmp/**"

	cfg, err := config.Load(ctx, "~/.ftpmirror.yaml")
	if err != nil {
		return err
	}
*/
package config
