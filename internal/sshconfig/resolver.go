// Copyright (c) 2026 Keymaster Team
// opssh - SSH client config generator for 1Password
// This source code is licensed under the MIT license found in the LICENSE file.

package sshconfig

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"strings"

	"github.com/toeirei/opssh/internal/logging"
	"github.com/toeirei/opssh/internal/shell"
)

// Directory templates for the two supported layouts.
const (
	unixDirTemplate = "/home/%s/.ssh"
	wslDirTemplate  = "/mnt/c/users/%s/.ssh"
)

const powershellExe = "powershell.exe"

// ErrNoWindowsUser is returned when WSL username discovery yields nothing.
var ErrNoWindowsUser = errors.New("could not determine the Windows username")

// Resolver finds the local ssh directory.
type Resolver struct {
	// Override is returned verbatim when non-empty.
	Override string
	WSL      bool
	// Runner invokes powershell.exe under WSL.
	Runner shell.Runner
	// LookPath defaults to exec.LookPath.
	LookPath func(file string) (string, error)
	// AskWindowsUser is called when powershell.exe is unavailable. It blocks
	// on user input.
	AskWindowsUser func() (string, error)
	// LoginName defaults to the current user's login name.
	LoginName func() (string, error)
}

// Resolve returns the absolute path of the ssh directory. It does not check
// that the path exists or is writable.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	if r.Override != "" {
		return r.Override, nil
	}
	if r.WSL {
		name, err := r.windowsUser(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(wslDirTemplate, name), nil
	}

	loginName := r.LoginName
	if loginName == nil {
		loginName = currentLoginName
	}
	name, err := loginName()
	if err != nil {
		return "", fmt.Errorf("determine login name: %w", err)
	}
	return fmt.Sprintf(unixDirTemplate, name), nil
}

func (r *Resolver) windowsUser(ctx context.Context) (string, error) {
	lookPath := r.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	var name string
	if ps, err := lookPath(powershellExe); err == nil && r.Runner != nil {
		out, err := r.Runner.Run(ctx, shell.Quote(ps)+" '$env:UserName'")
		if err != nil {
			return "", fmt.Errorf("ask powershell for the Windows username: %w", err)
		}
		name = out
	} else {
		if r.AskWindowsUser == nil {
			return "", ErrNoWindowsUser
		}
		logging.Debugf("%s not found; asking for the Windows username", powershellExe)
		answer, err := r.AskWindowsUser()
		if err != nil {
			return "", fmt.Errorf("read Windows username: %w", err)
		}
		name = answer
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNoWindowsUser
	}
	return name, nil
}

func currentLoginName() (string, error) {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username, nil
	}
	for _, env := range []string{"USER", "LOGNAME"} {
		if v := os.Getenv(env); v != "" {
			return v, nil
		}
	}
	return "", errors.New("no login name available")
}
