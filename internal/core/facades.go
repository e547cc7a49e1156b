// Copyright (c) 2026 Keymaster Team
// opssh - SSH client config generator for 1Password
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/toeirei/opssh/internal/i18n"
	"github.com/toeirei/opssh/internal/onepassword"
	"github.com/toeirei/opssh/internal/sshconfig"
)

// ErrDeclined is returned when the user refuses to replace an existing
// ssh directory. Nothing has been touched at that point.
var ErrDeclined = errors.New("replacement of the existing ssh directory was declined")

// Default field labels read from each item.
const (
	DefaultPublicKeyLabel = "public key"
	DefaultParamsLabel    = "chezmoi params"
)

// GenerateOptions selects which items and fields are read.
type GenerateOptions struct {
	Category       string
	PublicKeyLabel string
	ParamsLabel    string
	// AssumeYes skips the confirmation prompt.
	AssumeYes bool
}

func (o GenerateOptions) withDefaults() GenerateOptions {
	if o.Category == "" {
		o.Category = onepassword.CategorySSHKey
	}
	if o.PublicKeyLabel == "" {
		o.PublicKeyLabel = DefaultPublicKeyLabel
	}
	if o.ParamsLabel == "" {
		o.ParamsLabel = DefaultParamsLabel
	}
	return o
}

// CollectEntries lists items, drops signing keys and parses every remaining
// item into a ConfigEntry, in list order. The first failure aborts the whole
// collection.
func CollectEntries(ctx context.Context, src ItemSource, opts GenerateOptions, rep Reporter) ([]sshconfig.ConfigEntry, error) {
	opts = opts.withDefaults()

	items, err := src.ListItems(ctx, opts.Category)
	if err != nil {
		return nil, err
	}
	kept, skipped := FilterItems(items)
	for _, it := range skipped {
		rep.Reportf("%s", i18n.T("generate.skip_signing", it.Title))
	}

	entries := make([]sshconfig.ConfigEntry, 0, len(kept))
	for _, it := range kept {
		fields, err := src.GetFields(ctx, it.ID, opts.PublicKeyLabel, opts.ParamsLabel)
		if err != nil {
			return nil, err
		}
		entry, err := sshconfig.ParseEntry(fields)
		if err != nil {
			return nil, fmt.Errorf("item %s (%s): %w", it.ID, it.Title, err)
		}
		rep.Reportf("%s", i18n.T("generate.entry", entry.KeyName))
		entries = append(entries, entry)
	}
	return entries, nil
}

// RunGenerateCmd is the facade for the default command: resolve the ssh
// directory, confirm replacing it, collect entries and write them out.
func RunGenerateCmd(ctx context.Context, src ItemSource, res DirResolver, w ConfigWriter, c Confirmer, rep Reporter, opts GenerateOptions) (*sshconfig.Result, error) {
	dir, err := res.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve ssh directory: %w", err)
	}

	exists, err := dirExists(dir)
	if err != nil {
		return nil, err
	}
	if exists && !opts.AssumeYes {
		ok, err := c.Confirm(i18n.T("generate.confirm"))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrDeclined
		}
	}

	entries, err := CollectEntries(ctx, src, opts, rep)
	if err != nil {
		return nil, err
	}
	return w.Write(dir, entries)
}

// RunRenderCmd collects entries and returns the config text without touching
// the filesystem.
func RunRenderCmd(ctx context.Context, src ItemSource, rep Reporter, opts GenerateOptions, ro sshconfig.RenderOptions) (string, error) {
	entries, err := CollectEntries(ctx, src, opts, rep)
	if err != nil {
		return "", err
	}
	return sshconfig.Render(entries, ro), nil
}

// ItemStatus pairs an item with whether generation would include it.
type ItemStatus struct {
	Item     onepassword.Item
	Included bool
}

// RunListCmd reports every item of the category and whether it would be used.
func RunListCmd(ctx context.Context, src ItemSource, opts GenerateOptions) ([]ItemStatus, error) {
	opts = opts.withDefaults()
	items, err := src.ListItems(ctx, opts.Category)
	if err != nil {
		return nil, err
	}
	out := make([]ItemStatus, len(items))
	for i, it := range items {
		out[i] = ItemStatus{Item: it, Included: !IsSigningKey(it.Title)}
	}
	return out, nil
}

func dirExists(dir string) (bool, error) {
	_, err := os.Stat(dir)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", dir, err)
}
