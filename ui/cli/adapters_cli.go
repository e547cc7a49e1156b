// Copyright (c) 2026 Keymaster Team
// opssh - SSH client config generator for 1Password
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/toeirei/opssh/internal/i18n"
)

// cliReporter implements core.Reporter by printing one line per report.
type cliReporter struct {
	w io.Writer
}

func (r *cliReporter) Reportf(format string, args ...any) {
	fmt.Fprintln(r.w, fmt.Sprintf(format, args...))
}

// linePrompter reads answers line by line. It implements core.Confirmer and
// backs the Windows username question.
type linePrompter struct {
	in  *bufio.Reader
	out io.Writer
	// interactive is true when input comes from a terminal. Running out of
	// input then means the user pressed Ctrl-D, which counts as "no".
	interactive bool
}

func newLinePrompter(in io.Reader, out io.Writer, interactive bool) *linePrompter {
	return &linePrompter{in: bufio.NewReader(in), out: out, interactive: interactive}
}

// errNoAnswer is returned when piped input ends before a yes/no answer.
var errNoAnswer = errors.New("no answer")

// Confirm asks a question that defaults to yes. "y" or an empty line
// accepts, "n" declines, case and surrounding whitespace ignored; anything
// else asks again.
func (p *linePrompter) Confirm(question string) (bool, error) {
	for {
		fmt.Fprint(p.out, question)
		line, err := p.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		if errors.Is(err, io.EOF) && line == "" {
			fmt.Fprintln(p.out)
			if p.interactive {
				return false, nil
			}
			return false, fmt.Errorf("%w: %s", errNoAnswer, i18n.T("generate.no_answer"))
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "":
			return true, nil
		case "n":
			return false, nil
		}
	}
}

// AskWindowsUser asks for the Windows account name when it cannot be
// discovered through powershell.exe.
func (p *linePrompter) AskWindowsUser() (string, error) {
	fmt.Fprintln(p.out, i18n.T("wsl.intro"))
	fmt.Fprint(p.out, i18n.T("wsl.username"))
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if errors.Is(err, io.EOF) && line == "" {
		return "", io.ErrUnexpectedEOF
	}
	fmt.Fprintln(p.out, i18n.T("wsl.thanks"))
	return strings.TrimSpace(line), nil
}
