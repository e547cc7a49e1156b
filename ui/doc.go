// Copyright (c) 2026 Keymaster Team
// opssh - SSH client config generator for 1Password
// This source code is licensed under the MIT license found in the LICENSE file.

// Package ui groups the user-facing front ends of opssh. The only one is
// the command-line interface in ui/cli.
package ui
