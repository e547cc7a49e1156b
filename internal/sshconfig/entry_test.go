// Copyright (c) 2026 Keymaster Team
// opssh - SSH client config generator for 1Password
// This source code is licensed under the MIT license found in the LICENSE file.

package sshconfig

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/toeirei/opssh/internal/onepassword"
)

const testKey = "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIBkWJcVL1GtRlrVvxWzxWfQ0bW9L2J3Qk7aW5pMqJ1Ab test@example"

func fields(ref, params string) []onepassword.Field {
	return []onepassword.Field{
		{Label: "public key", Value: testKey, Reference: ref},
		{Label: "chezmoi params", Value: params},
	}
}

func TestParseEntry_Example(t *testing.T) {
	e, err := ParseEntry(fields("op://Vault/Example Host/item", "url example.com\nuser admin\naliases ex,example"))
	if err != nil {
		t.Fatalf("ParseEntry failed: %v", err)
	}
	want := ConfigEntry{
		Key:     testKey,
		KeyName: "Example_Host",
		Host:    "example.com",
		User:    "admin",
		Aliases: "ex,example",
	}
	if diff := cmp.Diff(want, e); diff != "" {
		t.Fatalf("entry mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEntry_HostHasNoTrailingWhitespace(t *testing.T) {
	for _, blob := range []string{
		"url example.com",
		"url example.com   ",
		"url example.com\r\nuser admin\r\n",
		"user admin\n\n  url   example.com\t\n",
	} {
		e, err := ParseEntry(fields("op://Vault/Host/item", blob))
		if err != nil {
			t.Fatalf("ParseEntry(%q) failed: %v", blob, err)
		}
		if e.Host != "example.com" {
			t.Fatalf("ParseEntry(%q).Host = %q", blob, e.Host)
		}
	}
}

func TestParseEntry_MissingURL(t *testing.T) {
	cases := []struct {
		name      string
		ref       string
		params    string
		wantEntry string
	}{
		{"labelled", "op://Vault/Some Key/item", "user admin", "Some Key"},
		{"unlabelled", "not-a-reference", "user admin\naliases a,b", unknownEntry},
		{"empty params", "op://Vault/Some Key/item", "", "Some Key"},
		{"url without value", "op://Vault/Some Key/item", "url", "Some Key"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseEntry(fields(c.ref, c.params))
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Entry != c.wantEntry || verr.Param != ParamURL {
				t.Fatalf("unexpected validation error: %+v", verr)
			}
			if !strings.Contains(err.Error(), c.wantEntry) {
				t.Fatalf("error does not name the entry: %v", err)
			}
		})
	}
}

func TestParseEntry_KeyNameFallsBackToHost(t *testing.T) {
	for _, ref := range []string{"", "op://weird-vault/Key/item", "https://example.com"} {
		e, err := ParseEntry(fields(ref, "url my host.example"))
		if err != nil {
			t.Fatalf("ParseEntry failed: %v", err)
		}
		if e.KeyName != "my_host.example" {
			t.Fatalf("ref %q: KeyName = %q, want host fallback", ref, e.KeyName)
		}
	}
}

func TestParseEntry_KeyNameStaysInsideDirectory(t *testing.T) {
	cases := map[string]string{
		"url ../escaped":    ".._escaped",
		"url a/b":           "a_b",
		"url /etc/passwd":   "_etc_passwd",
		`url host\evil`:     "host_evil",
		"url ../../../root": ".._.._.._root",
	}
	for blob, want := range cases {
		e, err := ParseEntry(fields("not-a-reference", blob))
		if err != nil {
			t.Fatalf("ParseEntry(%q) failed: %v", blob, err)
		}
		if e.KeyName != want {
			t.Errorf("ParseEntry(%q).KeyName = %q, want %q", blob, e.KeyName, want)
		}
		if strings.ContainsAny(e.KeyName, `/\`) {
			t.Errorf("KeyName %q contains a path separator", e.KeyName)
		}
	}

	for _, blob := range []string{"url .", "url .."} {
		if _, err := ParseEntry(fields("not-a-reference", blob)); err == nil {
			t.Errorf("ParseEntry(%q) accepted a dot key name", blob)
		}
	}
}

func TestParseEntry_UnicodeTitle(t *testing.T) {
	e, err := ParseEntry(fields("op://Privé/Café Server/public key", "url cafe.example"))
	if err != nil {
		t.Fatalf("ParseEntry failed: %v", err)
	}
	if e.KeyName != "Café_Server" {
		t.Fatalf("KeyName = %q, want the item title", e.KeyName)
	}
}

func TestParseEntry_KeyNameHasNoWhitespace(t *testing.T) {
	e, err := ParseEntry(fields("op://Private Vault/Work  Laptop Key/public key", "url example.com"))
	if err != nil {
		t.Fatalf("ParseEntry failed: %v", err)
	}
	if e.KeyName != "Work__Laptop_Key" {
		t.Fatalf("KeyName = %q", e.KeyName)
	}
	if strings.ContainsAny(e.KeyName, " \t\n") {
		t.Fatalf("KeyName contains whitespace: %q", e.KeyName)
	}
}

func TestParseEntry_ExtraAndMalformedLines(t *testing.T) {
	e, err := ParseEntry(fields("op://Vault/Box/item", "url box.lan\nport 2222\ngarbage\noptions ForwardAgent yes"))
	if err != nil {
		t.Fatalf("ParseEntry failed: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"port": "2222"}, e.Extra); diff != "" {
		t.Fatalf("extra mismatch (-want +got):\n%s", diff)
	}
	if e.Options != "ForwardAgent yes" {
		t.Fatalf("Options = %q", e.Options)
	}
}

func TestParseEntry_ParamNamesAreCaseSensitive(t *testing.T) {
	e, err := ParseEntry(fields("op://Vault/Box/item", "url box.lan\nUser root\nOptions ForwardAgent yes"))
	if err != nil {
		t.Fatalf("ParseEntry failed: %v", err)
	}
	if e.User != "" || e.Options != "" {
		t.Fatalf("capitalized names must not set fields: %+v", e)
	}
	if diff := cmp.Diff(map[string]string{"User": "root", "Options": "ForwardAgent yes"}, e.Extra); diff != "" {
		t.Fatalf("extra mismatch (-want +got):\n%s", diff)
	}

	_, err = ParseEntry(fields("op://Vault/Box/item", "URL box.lan"))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("URL must not count as url, got %v", err)
	}
}

func TestParseEntry_LaterLineWins(t *testing.T) {
	e, err := ParseEntry(fields("op://Vault/Box/item", "url first.lan\nurl second.lan"))
	if err != nil {
		t.Fatalf("ParseEntry failed: %v", err)
	}
	if e.Host != "second.lan" {
		t.Fatalf("Host = %q", e.Host)
	}
}

func TestParseEntry_TooFewFields(t *testing.T) {
	_, err := ParseEntry([]onepassword.Field{{Value: testKey}})
	if err == nil {
		t.Fatalf("expected error for a single field")
	}
}

func TestKeyNameFromReference(t *testing.T) {
	cases := map[string]string{
		"op://Vault/Example Host/item":      "Example Host",
		"op://Vault/My Signing Key/field":   "My Signing Key",
		"op://Private/github/public key":    "github",
		"op://Private/no-hyphens-allowed/x": "",
		"op://Private/Café Server/x":        "Café Server",
		"op://Tresor/Schlüssel 2/x":         "Schlüssel 2",
		"op://Vault/Example Host":           "",
		"":                                  "",
	}
	for ref, want := range cases {
		if got := KeyNameFromReference(ref); got != want {
			t.Errorf("KeyNameFromReference(%q) = %q, want %q", ref, got, want)
		}
	}
}
