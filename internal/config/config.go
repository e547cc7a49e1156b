// Copyright (c) 2026 Keymaster Team
// opssh - SSH client config generator for 1Password
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads opssh settings from defaults, an optional opssh.yaml,
// OPSSH_* environment variables and command-line flags, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the full set of opssh settings.
type Config struct {
	// OpPath overrides the 1Password CLI lookup.
	OpPath string `mapstructure:"op_path" yaml:"op_path"`
	// SSHDir overrides the ssh directory that gets regenerated.
	SSHDir      string `mapstructure:"ssh_dir" yaml:"ssh_dir"`
	Category    string `mapstructure:"category" yaml:"category"`
	Fields      Fields `mapstructure:"fields" yaml:"fields"`
	AgentSocket string `mapstructure:"agent_socket" yaml:"agent_socket"`
	Language    string `mapstructure:"language" yaml:"language"`
}

// Fields names the item fields read from 1Password.
type Fields struct {
	PublicKey string `mapstructure:"public_key" yaml:"public_key"`
	Params    string `mapstructure:"params" yaml:"params"`
}

// Defaults returns the default value of every key.
func Defaults() map[string]any {
	return map[string]any{
		"op_path":           "",
		"ssh_dir":           "",
		"category":          "SSHKEY",
		"fields.public_key": "public key",
		"fields.params":     "chezmoi params",
		"agent_socket":      "~/.1password/agent.sock",
		"language":          "en",
	}
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "opssh")
		default:
			configDir = "/etc/opssh"
		}
	} else {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(dir, "opssh")
	}

	return filepath.Join(configDir, "opssh.yaml"), nil
}

// LoadConfig builds a T from defaults, the first opssh.yaml found (or
// configFile when non-nil), OPSSH_* environment variables and the flags of
// cmd. It returns the config file actually read, or "" if none was found.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, configFile *string) (T, string, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("opssh")
	v.SetConfigType("yaml")
	if configFile != nil {
		v.SetConfigFile(*configFile)
	}
	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; a malformed one is not.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, "", fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("opssh")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		if err := bindFlags(v, cmd.Flags()); err != nil {
			return c, "", err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, "", fmt.Errorf("decode config: %w", err)
	}
	return c, v.ConfigFileUsed(), nil
}

// bindFlags binds every flag under its own name and, for dashed names, under
// the underscored config key too (--op-path sets op_path).
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if err := v.BindPFlags(flags); err != nil {
		return err
	}
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if bindErr != nil || !strings.Contains(f.Name, "-") {
			return
		}
		bindErr = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})
	return bindErr
}

// WriteConfigFile writes c as YAML to the user or system config path and
// returns that path.
func WriteConfigFile[T any](c *T, system bool) (string, error) {
	path, err := GetConfigPath(system)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
