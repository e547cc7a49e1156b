// Copyright (c) 2026 Keymaster Team
// opssh - SSH client config generator for 1Password
// This source code is licensed under the MIT license found in the LICENSE file.

package onepassword_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/toeirei/opssh/internal/onepassword"
	"github.com/toeirei/opssh/internal/testutil"
)

const (
	listCmd = "/usr/bin/op item list --categories SSHKEY --format json"
	getCmd  = "/usr/bin/op item get --format json --fields 'label=public key,label=chezmoi params' abc123"
)

func TestListItems(t *testing.T) {
	runner := testutil.NewFakeRunner().Respond(listCmd, `[
  {"id":"abc123","title":"Example Host","category":"SSH_KEY","vault":{"id":"v1","name":"Private"}},
  {"id":"def456","title":"Git Signing Key","category":"SSH_KEY","vault":{"id":"v1","name":"Private"}}
]`)
	c := onepassword.NewClient("/usr/bin/op", runner)

	items, err := c.ListItems(context.Background(), onepassword.CategorySSHKey)
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	want := []onepassword.Item{
		{ID: "abc123", Title: "Example Host", Category: "SSH_KEY", Vault: onepassword.Vault{ID: "v1", Name: "Private"}},
		{ID: "def456", Title: "Git Signing Key", Category: "SSH_KEY", Vault: onepassword.Vault{ID: "v1", Name: "Private"}},
	}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestListItems_EmptyOutput(t *testing.T) {
	c := onepassword.NewClient("/usr/bin/op", testutil.NewFakeRunner().Respond(listCmd, "\n"))
	items, err := c.ListItems(context.Background(), onepassword.CategorySSHKey)
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %v", items)
	}
}

func TestListItems_MalformedJSON(t *testing.T) {
	c := onepassword.NewClient("/usr/bin/op", testutil.NewFakeRunner().Respond(listCmd, "[{not json"))
	if _, err := c.ListItems(context.Background(), onepassword.CategorySSHKey); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestListItems_RunnerErrorPropagates(t *testing.T) {
	boom := errors.New("not signed in")
	c := onepassword.NewClient("/usr/bin/op", testutil.NewFakeRunner().Fail(listCmd, boom))
	_, err := c.ListItems(context.Background(), onepassword.CategorySSHKey)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped runner error, got: %v", err)
	}
}

func TestGetFields_PreservesRequestedOrder(t *testing.T) {
	runner := testutil.NewFakeRunner().Respond(getCmd, `[
  {"id":"public_key","type":"STRING","label":"public key","value":"ssh-ed25519 AAAA","reference":"op://Private/Example Host/public key"},
  {"id":"x1","type":"STRING","label":"chezmoi params","value":"url example.com","reference":"op://Private/Example Host/chezmoi params"}
]`)
	c := onepassword.NewClient("/usr/bin/op", runner)

	fields, err := c.GetFields(context.Background(), "abc123", "public key", "chezmoi params")
	if err != nil {
		t.Fatalf("GetFields failed: %v", err)
	}
	if len(fields) != 2 || fields[0].Label != "public key" || fields[1].Label != "chezmoi params" {
		t.Fatalf("unexpected fields: %+v", fields)
	}
	if got := runner.Calls(); len(got) != 1 || got[0] != getCmd {
		t.Fatalf("unexpected commands: %q", got)
	}
}

func TestGetFields_SingleObjectNormalized(t *testing.T) {
	cmd := "/usr/bin/op item get --format json --fields 'label=public key' abc123"
	runner := testutil.NewFakeRunner().Respond(cmd, `{"id":"public_key","label":"public key","value":"ssh-ed25519 AAAA"}`)
	c := onepassword.NewClient("/usr/bin/op", runner)

	fields, err := c.GetFields(context.Background(), "abc123", "public key")
	if err != nil {
		t.Fatalf("GetFields failed: %v", err)
	}
	if len(fields) != 1 || fields[0].Value != "ssh-ed25519 AAAA" {
		t.Fatalf("unexpected fields: %+v", fields)
	}
}

func TestGetFields_QuotesExecutablePath(t *testing.T) {
	exe := "/mnt/c/Program Files/1Password CLI/op.exe"
	cmd := "'/mnt/c/Program Files/1Password CLI/op.exe' item get --format json --fields 'label=public key,label=chezmoi params' abc123"
	c := onepassword.NewClient(exe, testutil.NewFakeRunner().Respond(cmd, "[]"))
	if _, err := c.GetFields(context.Background(), "abc123", "public key", "chezmoi params"); err != nil {
		t.Fatalf("GetFields failed: %v", err)
	}
}
