// Copyright (c) 2026 Keymaster Team
// opssh - SSH client config generator for 1Password
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toeirei/opssh/internal/core"
	"github.com/toeirei/opssh/internal/i18n"
	"github.com/toeirei/opssh/internal/onepassword"
	"github.com/toeirei/opssh/internal/sshconfig"
)

// locateClient finds the 1Password CLI. When it is missing the user is told
// so, with a hint under WSL, and an exitError is returned.
func locateClient(cmd *cobra.Command, opts *rootOptions, wsl bool) (*onepassword.Client, error) {
	exe, err := onepassword.Locate(onepassword.LocatorOptions{
		Override: opts.config.OpPath,
		WSL:      wsl,
		LookPath: lookPath,
	})
	if errors.Is(err, onepassword.ErrToolNotFound) {
		errOut := cmd.ErrOrStderr()
		fmt.Fprintln(errOut, errorStyle.Render(i18n.T("tool.not_found")))
		if wsl {
			fmt.Fprintln(errOut, warnStyle.Render(i18n.T("tool.wsl_hint")))
		}
		return nil, &exitError{code: 1}
	}
	if err != nil {
		return nil, err
	}
	return onepassword.NewClient(exe, newRunner()), nil
}

func generateOptions(opts *rootOptions) core.GenerateOptions {
	return core.GenerateOptions{
		Category:       opts.config.Category,
		PublicKeyLabel: opts.config.Fields.PublicKey,
		ParamsLabel:    opts.config.Fields.Params,
		AssumeYes:      opts.assumeYes,
	}
}

func renderOptions(opts *rootOptions, wsl bool) sshconfig.RenderOptions {
	return sshconfig.RenderOptions{WSL: wsl, AgentSocket: opts.config.AgentSocket}
}

func runGenerate(cmd *cobra.Command, opts *rootOptions) error {
	out := cmd.OutOrStdout()
	wsl := detectWSL()

	client, err := locateClient(cmd, opts, wsl)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, i18n.T("generate.start"))

	prompter := newLinePrompter(stdin, out, stdinIsTerminal())
	resolver := &sshconfig.Resolver{
		Override:       opts.config.SSHDir,
		WSL:            wsl,
		Runner:         newRunner(),
		LookPath:       lookPath,
		AskWindowsUser: prompter.AskWindowsUser,
	}
	builder := &sshconfig.Builder{RenderOptions: renderOptions(opts, wsl)}

	res, err := core.RunGenerateCmd(cmd.Context(), client, resolver, builder, prompter, &cliReporter{w: out}, generateOptions(opts))
	if errors.Is(err, core.ErrDeclined) {
		fmt.Fprintln(out, mutedStyle.Render(i18n.T("generate.declined")))
		return nil
	}
	if err != nil {
		return err
	}

	if res.Backup != "" {
		fmt.Fprintln(out, warnStyle.Render(i18n.T("generate.backup", res.Backup)))
	}
	fmt.Fprintln(out, successStyle.Render(i18n.T("generate.done", res.Hosts, res.Dir)))
	return nil
}

func runRender(cmd *cobra.Command, opts *rootOptions) error {
	wsl := detectWSL()
	client, err := locateClient(cmd, opts, wsl)
	if err != nil {
		return err
	}
	// Progress goes to stderr so stdout carries only the config text.
	text, err := core.RunRenderCmd(cmd.Context(), client, &cliReporter{w: cmd.ErrOrStderr()}, generateOptions(opts), renderOptions(opts, wsl))
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), text)
	return nil
}

func newRenderCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Print the generated SSH config without writing anything",
		Long: `Reads the same 1Password items as the default command and prints the
resulting config file to stdout. Nothing on disk is touched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, opts)
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List SSH key items and whether they would be used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := locateClient(cmd, opts, detectWSL())
			if err != nil {
				return err
			}
			statuses, err := core.RunListCmd(cmd.Context(), client, generateOptions(opts))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, st := range statuses {
				state := successStyle.Render(i18n.T("list.included"))
				if !st.Included {
					state = mutedStyle.Render(i18n.T("list.skipped"))
				}
				fmt.Fprintf(out, "%s\t%s\t%s\n", st.Item.ID, st.Item.Title, state)
			}
			return nil
		},
	}
}
