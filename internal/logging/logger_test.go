// Copyright (c) 2026 Keymaster Team
// opssh - SSH client config generator for 1Password
// This source code is licensed under the MIT license found in the LICENSE file.

package logging

import (
	"bytes"
	"strings"
	"testing"

	clog "github.com/charmbracelet/log"
)

// swapLogger replaces L with a buffer-backed logger for the duration of the test.
func swapLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := L
	L = clog.New(&buf)
	t.Cleanup(func() { L = prev })
	return &buf
}

func TestLoggingHelpers_WriteToBuffer(t *testing.T) {
	buf := swapLogger(t)
	SetDebug(true)

	Debugf("hello %s", "dbg")
	Infof("info %d", 1)
	Warnf("warn")
	Errorf("err %v", "E")

	out := buf.String()
	for _, want := range []string{"hello dbg", "info 1", "warn", "err E"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output; got: %s", want, out)
		}
	}
}

func TestSetDebug_DisabledSuppressesDebug(t *testing.T) {
	buf := swapLogger(t)
	SetDebug(false)

	Debugf("hidden")
	Infof("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug output leaked with debug disabled: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("missing info output; got: %s", out)
	}
}
