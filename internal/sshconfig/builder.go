// Copyright (c) 2026 Keymaster Team
// opssh - SSH client config generator for 1Password
// This source code is licensed under the MIT license found in the LICENSE file.

package sshconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/toeirei/opssh/internal/logging"
)

// File modes used for the generated directory.
const (
	dirMode    = 0o700
	configMode = 0o600
	keyMode    = 0o644
)

// ConfigFileName is the name of the generated client config.
const ConfigFileName = "config"

// Builder replaces an ssh directory with one generated from entries.
type Builder struct {
	RenderOptions
	// Now stamps backup archives; defaults to time.Now.
	Now func() time.Time
}

// Result describes what Write produced.
type Result struct {
	Dir        string
	ConfigPath string
	// Backup is empty when there was no previous directory.
	Backup string
	// Hosts counts the Host stanzas written to the config.
	Hosts    int
	KeyFiles []string
}

// Write backs up dir if it exists, removes it, recreates it empty and fills
// it with one key file per entry plus the config file. Entries are written
// in order. The step is destructive; the only way back is the backup.
func (b *Builder) Write(dir string, entries []ConfigEntry) (*Result, error) {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}

	res := &Result{Dir: dir, ConfigPath: filepath.Join(dir, ConfigFileName), Hosts: len(entries)}
	for _, e := range entries {
		if name := e.KeyFileName(); e.KeyName == "" || filepath.Base(name) != name {
			return nil, fmt.Errorf("key name %q of %s is not a plain file name", e.KeyName, e.Host)
		}
	}

	backup, err := Backup(dir, now())
	if err != nil {
		return nil, err
	}
	if backup != "" {
		res.Backup = backup
		logging.Debugf("backed up %s to %s", dir, backup)
		if err := os.RemoveAll(dir); err != nil {
			return nil, fmt.Errorf("remove %s: %w", dir, err)
		}
	}
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		name := e.KeyFileName()
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(e.Key), keyMode); err != nil {
			return nil, fmt.Errorf("write key file %s: %w", p, err)
		}
		if seen[name] {
			logging.Warnf("duplicate key name %s; the later entry's key file wins", e.KeyName)
			continue
		}
		seen[name] = true
		res.KeyFiles = append(res.KeyFiles, p)
	}

	if err := os.WriteFile(res.ConfigPath, []byte(Render(entries, b.RenderOptions)), configMode); err != nil {
		return nil, fmt.Errorf("write %s: %w", res.ConfigPath, err)
	}
	return res, nil
}
