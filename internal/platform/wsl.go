// Copyright (c) 2026 Keymaster Team
// opssh - SSH client config generator for 1Password
// This source code is licensed under the MIT license found in the LICENSE file.

// Package platform detects the Windows Subsystem for Linux, which changes
// both the 1Password executable name and the location of the .ssh directory.
package platform

import "strings"

// IsWSL reports whether the process runs inside WSL.
func IsWSL() bool {
	return isWSLRelease(kernelRelease())
}

// isWSLRelease reports whether a kernel release string belongs to a WSL kernel.
// Both WSL1 ("4.4.0-19041-Microsoft") and WSL2 ("5.15.90.1-microsoft-standard-WSL2")
// carry the vendor name.
func isWSLRelease(release string) bool {
	return strings.Contains(strings.ToLower(release), "microsoft")
}
