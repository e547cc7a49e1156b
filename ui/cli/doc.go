// Copyright (c) 2026 Keymaster Team
// opssh - SSH client config generator for 1Password
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for opssh using Cobra.
// It wires configuration, prompts and the 1Password client, then delegates
// to the `core` facades. CLI code should remain thin.
package cli
