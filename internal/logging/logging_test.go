// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, log.InfoLevel)

	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug written at info level: %q", buf.String())
	}
	l.Info("shown")
	if buf.Len() == 0 {
		t.Fatalf("info not written")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Level{
		"debug":  log.DebugLevel,
		" WARN ": log.WarnLevel,
		"error":  log.ErrorLevel,
		"bogus":  log.InfoLevel,
		"":       log.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q): got %v want %v", in, got, want)
		}
	}
}

func TestContextRoundTrip(t *testing.T) {
	l := New(&bytes.Buffer{}, log.DebugLevel)
	ctx := WithLogger(context.Background(), l)
	if FromContext(ctx) != l {
		t.Fatalf("logger not recovered from context")
	}
	if FromContext(context.Background()) != log.Default() {
		t.Fatalf("expected default logger for bare context")
	}
}

func TestOpenFileCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "client.log")
	f, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	f.Close()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("log file missing: %v", err)
	}
}
