// Copyright (c) 2026 Keymaster Team
// opssh - SSH client config generator for 1Password
// This source code is licensed under the MIT license found in the LICENSE file.

// Package onepassword talks to the 1Password CLI (`op`). The CLI must already
// be signed in; authentication is never attempted here.
package onepassword

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/toeirei/opssh/internal/shell"
)

// CategorySSHKey is the item category holding SSH keys.
const CategorySSHKey = "SSHKEY"

// Item is one row of `op item list`.
type Item struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category,omitempty"`
	Vault    Vault  `json:"vault"`
}

// Vault identifies the vault an item lives in.
type Vault struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Field is one field returned by `op item get --fields`.
type Field struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Label     string `json:"label"`
	Value     string `json:"value"`
	Reference string `json:"reference"`
}

// Client issues `op` commands through a shell.Runner.
type Client struct {
	exe    string
	runner shell.Runner
}

// NewClient returns a Client for the executable at exe.
func NewClient(exe string, runner shell.Runner) *Client {
	return &Client{exe: exe, runner: runner}
}

// ListItems lists all items of the given category, in the order op returns them.
func (c *Client) ListItems(ctx context.Context, category string) ([]Item, error) {
	cmd := fmt.Sprintf("%s item list --categories %s --format json", shell.Quote(c.exe), shell.Quote(category))
	out, err := c.runner.Run(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("list %s items: %w", category, err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return nil, nil
	}
	var items []Item
	if err := json.Unmarshal([]byte(out), &items); err != nil {
		return nil, fmt.Errorf("decode item list: %w", err)
	}
	return items, nil
}

// GetFields fetches the labelled fields of one item. op returns them in the
// order requested; with a single label it returns a bare object, which is
// normalized to a one-element slice.
func (c *Client) GetFields(ctx context.Context, id string, labels ...string) ([]Field, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("get fields of %s: no labels requested", id)
	}
	selectors := make([]string, len(labels))
	for i, l := range labels {
		selectors[i] = "label=" + l
	}
	cmd := fmt.Sprintf("%s item get --format json --fields %s %s",
		shell.Quote(c.exe), shell.Quote(strings.Join(selectors, ",")), shell.Quote(id))
	out, err := c.runner.Run(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("get fields of %s: %w", id, err)
	}
	return decodeFields([]byte(strings.TrimSpace(out)))
}

func decodeFields(data []byte) ([]Field, error) {
	if len(data) > 0 && data[0] == '{' {
		var f Field
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("decode field: %w", err)
		}
		return []Field{f}, nil
	}
	var fields []Field
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	return fields, nil
}
