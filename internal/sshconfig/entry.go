// Copyright (c) 2026 Keymaster Team
// opssh - SSH client config generator for 1Password
// This source code is licensed under the MIT license found in the LICENSE file.

// Package sshconfig turns 1Password SSH-key items into an OpenSSH client
// configuration directory: one Host stanza and one .pub file per item.
package sshconfig

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/toeirei/opssh/internal/logging"
	"github.com/toeirei/opssh/internal/onepassword"
	"golang.org/x/crypto/ssh"
)

// Recognized parameter names in the params field.
const (
	ParamURL     = "url"
	ParamUser    = "user"
	ParamAliases = "aliases"
	ParamOptions = "options"
)

// unknownEntry names an entry in errors when no label could be derived.
const unknownEntry = "unknown"

// referencePattern captures the item title out of a secret reference such as
// op://Vault/Item Title/field. Word characters include non-ASCII letters.
var referencePattern = regexp.MustCompile(`^op://(?:[\p{L}\p{N}_]+\s*)*?/((?:[\p{L}\p{N}_]+\s*)*)/.*$`)

// ConfigEntry is one SSH key and the connection metadata stored beside it.
type ConfigEntry struct {
	// Key is the public key text, written verbatim to <KeyName>.pub.
	Key string
	// KeyName is the file stem of the key; never empty, never contains whitespace.
	KeyName string
	// Host is the connection target from the url parameter. Required.
	Host string
	User string
	// Aliases is a comma-separated list of extra Host patterns.
	Aliases string
	// Options is a comma-separated list of raw config lines.
	Options string
	// Extra holds parameters with unrecognized names. They are not serialized.
	Extra map[string]string
}

// ValidationError reports an entry missing a required parameter.
type ValidationError struct {
	Entry string
	Param string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("entry %q does not specify a %s to connect to; add a %q line to its params field in 1Password", e.Entry, e.Param, e.Param+" <value>")
}

// ParseEntry builds a ConfigEntry from the two fields fetched for an item:
// fields[0] is the public key (its reference also yields the item title),
// fields[1] the newline-separated params blob.
func ParseEntry(fields []onepassword.Field) (ConfigEntry, error) {
	if len(fields) < 2 {
		return ConfigEntry{}, fmt.Errorf("expected public key and params fields, got %d field(s)", len(fields))
	}

	e := ConfigEntry{
		Key:     fields[0].Value,
		KeyName: KeyNameFromReference(fields[0].Reference),
	}
	e.applyParams(fields[1].Value)

	if e.Host == "" {
		label := e.KeyName
		if label == "" {
			label = unknownEntry
		}
		return ConfigEntry{}, &ValidationError{Entry: label, Param: ParamURL}
	}
	if e.KeyName == "" {
		e.KeyName = e.Host
	}
	e.KeyName = normalizeKeyName(e.KeyName)
	if e.KeyName == "." || e.KeyName == ".." {
		return ConfigEntry{}, fmt.Errorf("entry %q: key name %q is not a usable file name", e.Host, e.KeyName)
	}

	checkPublicKey(e)
	return e, nil
}

// KeyNameFromReference extracts the item title from a secret reference.
// It returns "" when the reference does not have the expected shape.
func KeyNameFromReference(ref string) string {
	m := referencePattern.FindStringSubmatch(ref)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

func (e *ConfigEntry) applyParams(blob string) {
	for _, line := range strings.Split(blob, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sep := strings.IndexFunc(line, unicode.IsSpace)
		if sep < 0 {
			logging.Warnf("ignoring params line %q: expected \"<name> <value>\"", line)
			continue
		}
		name, value := line[:sep], strings.TrimSpace(line[sep+1:])
		switch name {
		case ParamURL:
			e.Host = value
		case ParamUser:
			e.User = value
		case ParamAliases:
			e.Aliases = value
		case ParamOptions:
			e.Options = value
		default:
			if e.Extra == nil {
				e.Extra = map[string]string{}
			}
			e.Extra[name] = value
		}
	}
}

// normalizeKeyName maps whitespace and path separators to '_' so the name
// stays a single file inside the ssh directory.
func normalizeKeyName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, name)
}

// checkPublicKey warns about key material ssh cannot parse. The text is still
// written as-is.
func checkPublicKey(e ConfigEntry) {
	if strings.TrimSpace(e.Key) == "" {
		logging.Warnf("entry %s has an empty public key", e.KeyName)
		return
	}
	pub, _, _, _, err := ssh.ParseAuthorizedKey([]byte(e.Key))
	if err != nil {
		logging.Warnf("entry %s: public key does not parse: %v", e.KeyName, err)
		return
	}
	logging.Debugf("entry %s: %s key", e.KeyName, pub.Type())
}

// splitList splits a comma-separated list, trimming items and dropping empties.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
