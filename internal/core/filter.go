// Copyright (c) 2026 Keymaster Team
// opssh - SSH client config generator for 1Password
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"strings"

	"github.com/toeirei/opssh/internal/onepassword"
)

// IsSigningKey reports whether an item title marks a commit-signing key.
// Signing keys never get a Host stanza. The match is a case-insensitive
// "signing" substring.
//
// TODO: expose the exclusion pattern in the config file once someone needs
// to keep a key whose title mentions signing.
func IsSigningKey(title string) bool {
	return strings.Contains(strings.ToLower(title), "signing")
}

// FilterItems splits items into those to generate and those excluded as
// signing keys, preserving order in both.
func FilterItems(items []onepassword.Item) (kept, skipped []onepassword.Item) {
	for _, it := range items {
		if IsSigningKey(it.Title) {
			skipped = append(skipped, it)
			continue
		}
		kept = append(kept, it)
	}
	return kept, skipped
}
