// Copyright (c) 2026 Keymaster Team
// opssh - SSH client config generator for 1Password
// This source code is licensed under the MIT license found in the LICENSE file.

package onepassword

import (
	"errors"
	"os/exec"
)

// Executable names of the 1Password CLI.
const (
	ExeName        = "op"
	WindowsExeName = "op.exe"
)

// ErrToolNotFound is returned when no 1Password CLI can be located.
var ErrToolNotFound = errors.New("1Password CLI not found")

// LocatorOptions controls how Locate searches for the CLI.
type LocatorOptions struct {
	// Override is used verbatim when non-empty.
	Override string
	// WSL selects the Windows executable, which is the one that talks to
	// the desktop app from inside WSL.
	WSL bool
	// LookPath defaults to exec.LookPath.
	LookPath func(file string) (string, error)
}

// Locate returns the path of the 1Password CLI or ErrToolNotFound.
func Locate(opts LocatorOptions) (string, error) {
	if opts.Override != "" {
		return opts.Override, nil
	}
	lookPath := opts.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	name := ExeName
	if opts.WSL {
		name = WindowsExeName
	}
	path, err := lookPath(name)
	if err != nil || path == "" {
		return "", ErrToolNotFound
	}
	return path, nil
}
