// Copyright (c) 2026 Keymaster Team
// opssh - SSH client config generator for 1Password
// This source code is licensed under the MIT license found in the LICENSE file.

// Package testutil provides fakes shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"sync"
)

// FakeRunner is an in-memory shell.Runner used by tests to avoid spawning
// real processes. Commands without a registered response fail.
type FakeRunner struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	calls     []string
}

type fakeResponse struct {
	out string
	err error
}

// NewFakeRunner returns an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{responses: map[string]fakeResponse{}}
}

// Respond registers the stdout returned for an exact command string.
func (f *FakeRunner) Respond(command, out string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[command] = fakeResponse{out: out}
	return f
}

// Fail registers an error returned for an exact command string.
func (f *FakeRunner) Fail(command string, err error) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[command] = fakeResponse{err: err}
	return f
}

// Run implements shell.Runner.
func (f *FakeRunner) Run(_ context.Context, command string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, command)
	r, ok := f.responses[command]
	if !ok {
		return "", fmt.Errorf("fake runner: unexpected command %q", command)
	}
	return r.out, r.err
}

// Calls returns the commands run so far, in order.
func (f *FakeRunner) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
