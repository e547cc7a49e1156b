// Copyright (c) 2026 Keymaster Team
// opssh - SSH client config generator for 1Password
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface (CLI) for opssh using the Cobra
// library. It defines the root command, the persistent flags, configuration
// loading and the main entry point for execution.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/toeirei/opssh/buildvars"
	"github.com/toeirei/opssh/internal/config"
	"github.com/toeirei/opssh/internal/i18n"
	"github.com/toeirei/opssh/internal/logging"
	"github.com/toeirei/opssh/internal/platform"
	"github.com/toeirei/opssh/internal/shell"
	"golang.org/x/term"
)

const modulePath = "github.com/toeirei/opssh"

// Seams replaced by tests.
var (
	detectWSL                 = platform.IsWSL
	lookPath                  = exec.LookPath
	newRunner                 = func() shell.Runner { return shell.NewExecRunner() }
	stdin           io.Reader = os.Stdin
	stdinIsTerminal           = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
)

// exitError carries an exit status for failures that were already reported
// to the user.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// rootOptions holds the flag values of one root command instance.
type rootOptions struct {
	cfgFile   string
	verbose   bool
	assumeYes bool
	dryRun    bool
	config    config.Config
}

func (o *rootOptions) setupDefaultServices(cmd *cobra.Command, _ []string) error {
	configPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	cfg, used, err := config.LoadConfig[config.Config](cmd, config.Defaults(), configPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	o.config = cfg

	logging.SetDebug(o.verbose)
	if used != "" {
		logging.Debugf("using config file %s", used)
	}
	i18n.Init(cfg.Language)
	return nil
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	// Only proceed if the user has explicitly set the --config flag.
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	// Make sure the user-provided file exists to avoid unwanted behavior.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

// Execute runs the CLI entrypoint. The main package should call this
// function and handle process exit.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := NewRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *exitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(rootCmd.ErrOrStderr(), errorStyle.Render(i18n.T("error.generic", err)))
	}
	return err
}

// NewRootCmd creates and configures a new root cobra command.
// This function is used to create the main application command as well as
// fresh instances for isolated testing.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "opssh",
		Short: "opssh builds your SSH client config from keys stored in 1Password.",
		Long: `opssh reads every SSH key item from 1Password through the op CLI and
regenerates the local .ssh directory from them: one public key file and one
Host stanza per item, driven by the item's "chezmoi params" field.

An existing .ssh directory is archived to a .tar.gz next to it before it is
replaced. Items whose title mentions "signing" are skipped.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: opts.setupDefaultServices,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.dryRun {
				return runRender(cmd, opts)
			}
			return runGenerate(cmd, opts)
		},
	}

	cmd.Version = compositeVersion()

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/opssh/opssh.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP("version", "V", false, "Print version and exit")
	cmd.PersistentFlags().String("language", "en", `Message language ("en", "de")`)
	cmd.PersistentFlags().String("op-path", "", "Path to the 1Password CLI (skips PATH lookup)")
	cmd.PersistentFlags().String("ssh-dir", "", "SSH directory to regenerate (default is the current user's ~/.ssh)")
	cmd.Flags().BoolVarP(&opts.assumeYes, "yes", "y", false, "Replace an existing SSH directory without asking")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the generated config instead of writing anything")

	cmd.AddCommand(
		newRenderCmd(opts),
		newListCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Skip config loading.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), compositeVersion())
		},
	}
}

func compositeVersion() string {
	v, c, d := resolveBuildVersion(nil)
	out := v
	if c != "" && c != "dev" {
		out += " (" + c + ")"
	}
	if d != "" {
		out += " built: " + d
	}
	return out
}

// resolveBuildVersion prefers link-time values and falls back to the module
// build info embedded by the go tool.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := buildvars.VersionOrDefault("dev")
	resolvedCommit := buildvars.Commit
	resolvedDate := buildvars.Date

	if info == nil {
		if local, ok := debug.ReadBuildInfo(); ok {
			info = local
		}
	}

	if info != nil {
		if resolvedVersion == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		if resolvedVersion == "dev" {
			for _, dep := range info.Deps {
				if dep.Path == modulePath && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if resolvedCommit == "" && s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if resolvedDate == "" && s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	// As a last resort show the commit to aid support.
	if resolvedVersion == "dev" && resolvedCommit != "" {
		resolvedVersion = resolvedCommit
	}
	return resolvedVersion, resolvedCommit, resolvedDate
}
