// Copyright (c) 2026 Keymaster Team
// opssh - SSH client config generator for 1Password
// This source code is licensed under the MIT license found in the LICENSE file.

//go:build windows

package platform

// Native Windows is never WSL.
func kernelRelease() string { return "" }
