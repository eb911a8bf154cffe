/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetVerbose(false)
	})

	Info("compiled %s", "main")
	Warn("cycle: %v", []string{"a", "b"})
	Error("boom")
	Debug("hidden")

	SetVerbose(true)
	Debug("shown")

	got := buf.String()
	for _, want := range []string{"compiled main\n", "warning: cycle: [a b]\n", "error: boom\n", "debug: shown\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got %q", want, got)
		}
	}
	if strings.Contains(got, "hidden") {
		t.Error("debug output must be suppressed unless verbose")
	}
}
