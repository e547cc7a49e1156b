// Copyright (c) 2026 Keymaster Team
// opssh - SSH client config generator for 1Password
// This source code is licensed under the MIT license found in the LICENSE file.

package sshconfig

import (
	"fmt"
	"path"
	"strings"
)

// DefaultAgentSocket is where the 1Password SSH agent listens on Linux and macOS.
const DefaultAgentSocket = "~/.1password/agent.sock"

const header = "# This file was automatically generated by opssh. Changes will be overwritten the next time it runs.\n" +
	"# Re-run `opssh` to regenerate it from the SSH keys stored in 1Password.\n\n"

// RenderOptions controls the global part of the config.
type RenderOptions struct {
	// WSL omits the agent stanza; Windows ssh talks to 1Password over a named pipe.
	WSL bool
	// AgentSocket defaults to DefaultAgentSocket.
	AgentSocket string
}

// Render serializes entries into config file text. Output depends only on
// the arguments.
func Render(entries []ConfigEntry, opts RenderOptions) string {
	var b strings.Builder
	b.WriteString(header)
	if !opts.WSL {
		socket := opts.AgentSocket
		if socket == "" {
			socket = DefaultAgentSocket
		}
		fmt.Fprintf(&b, "Host *\n\tIdentityAgent %s\n", socket)
	}
	for _, e := range entries {
		b.WriteString("\n")
		b.WriteString(e.Stanza())
	}
	return b.String()
}

// Stanza renders the Host block for e.
func (e ConfigEntry) Stanza() string {
	var b strings.Builder
	b.WriteString("Host ")
	b.WriteString(e.Host)
	for _, alias := range splitList(e.Aliases) {
		b.WriteString(" ")
		b.WriteString(alias)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "\tHostName %s\n", e.Host)
	fmt.Fprintf(&b, "\tIdentityFile %q\n", e.IdentityFile())
	b.WriteString("\tIdentitiesOnly yes\n")
	if e.User != "" {
		fmt.Fprintf(&b, "\tUser %s\n", e.User)
	}
	for _, opt := range splitList(e.Options) {
		fmt.Fprintf(&b, "\t%s\n", opt)
	}
	return b.String()
}

// IdentityFile is the key path as ssh should resolve it; %d expands to the
// local user's home directory.
func (e ConfigEntry) IdentityFile() string {
	return path.Join("%d", ".ssh", e.KeyFileName())
}

// KeyFileName is the name of the public key file inside the ssh directory.
func (e ConfigEntry) KeyFileName() string {
	return e.KeyName + ".pub"
}
