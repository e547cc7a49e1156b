// Copyright (c) 2026 Keymaster Team
// opssh - SSH client config generator for 1Password
// This source code is licensed under the MIT license found in the LICENSE file.

// Package shell runs external commands given as a single shell-style string
// and hands back their standard output.
package shell

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/google/shlex"
	"github.com/toeirei/opssh/internal/logging"
)

// ErrEmptyCommand is returned when a command string holds no words.
var ErrEmptyCommand = errors.New("empty command")

// Runner executes a command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, command string) (string, error)
}

// ExecRunner runs commands as child processes.
type ExecRunner struct{}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run splits command with POSIX shell quoting rules, starts it, and blocks
// until it exits. The returned string is the complete stdout. A non-zero
// exit status is an error carrying whatever the process wrote to stderr.
func (r *ExecRunner) Run(ctx context.Context, command string) (string, error) {
	argv, err := shlex.Split(command)
	if err != nil {
		return "", fmt.Errorf("split command %q: %w", command, err)
	}
	if len(argv) == 0 {
		return "", ErrEmptyCommand
	}

	logging.Debugf("exec: %s", strings.Join(argv, " "))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("stdout pipe for %s: %w", argv[0], err)
	}
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("start %s: %w", argv[0], err)
	}

	var out strings.Builder
	reader := bufio.NewReader(stdout)
	for {
		line, readErr := reader.ReadString('\n')
		out.WriteString(line)
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			_ = cmd.Wait()
			return "", fmt.Errorf("read output of %s: %w", argv[0], readErr)
		}
	}

	if err := cmd.Wait(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s: %w: %s", argv[0], err, msg)
		}
		return "", fmt.Errorf("%s: %w", argv[0], err)
	}
	return out.String(), nil
}

// Quote returns s in a form that Run will split back into exactly one word.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\#") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
