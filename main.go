// Copyright (c) 2026 Keymaster Team
// opssh - SSH client config generator for 1Password
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for opssh.
//
// Usage:
//
//	go run . [flags]
//	./opssh [flags]
//
// Running without a subcommand regenerates the local .ssh directory from the
// SSH keys stored in 1Password. See --help for options.
package main

import (
	"os"

	"github.com/toeirei/opssh/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
