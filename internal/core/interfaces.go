// Copyright (c) 2026 Keymaster Team
// opssh - SSH client config generator for 1Password
// This source code is licensed under the MIT license found in the LICENSE file.

// Package core contains the generate flow behind the CLI commands. Side
// effects sit behind the small interfaces below so the CLI wires real
// implementations and tests wire fakes.
package core

import (
	"context"

	"github.com/toeirei/opssh/internal/onepassword"
	"github.com/toeirei/opssh/internal/sshconfig"
)

// ItemSource enumerates and fetches password manager items.
type ItemSource interface {
	ListItems(ctx context.Context, category string) ([]onepassword.Item, error)
	GetFields(ctx context.Context, id string, labels ...string) ([]onepassword.Field, error)
}

// DirResolver locates the ssh directory to regenerate.
type DirResolver interface {
	Resolve(ctx context.Context) (string, error)
}

// ConfigWriter replaces the ssh directory with generated content.
type ConfigWriter interface {
	Write(dir string, entries []sshconfig.ConfigEntry) (*sshconfig.Result, error)
}

// Confirmer asks a yes/no question.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Reporter is used by facades to emit progress or human-readable messages.
// Implementations may write to stdout, logs, or test buffers.
type Reporter interface {
	Reportf(format string, args ...any)
}
