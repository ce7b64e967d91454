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
	"context"
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(run(context.Background(), &handler{}, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the root command and maps the outcome to an exit code.
// Usage is printed to stderr, and only when cobra rejected the command line.
func run(ctx context.Context, h *handler, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(h)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		if !h.started {
			fmt.Fprint(stderr, cmd.UsageString())
		}
		return 1
	}
	return 0
}
