// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
)

func TestLoadWritesDefaultsWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", settingsName)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.GetString("client", "layout", ""); got != "default" {
		t.Fatalf("expected default layout name, got %q", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read settings: %v", err)
	}
	var disk map[string]interface{}
	if _, err := toml.Decode(string(data), &disk); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if Config(disk).Section("transcript") == nil {
		t.Fatalf("expected transcript section on disk")
	}
}

func TestLoadKeepsUserValuesAndFillsGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsName)
	body := "[client]\nframe_ms = 50\nlog_level = \"debug\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.GetDuration("client", "frame_ms", 0); got != 50*time.Millisecond {
		t.Fatalf("frame_ms: got %v", got)
	}
	if got := cfg.GetString("client", "log_level", ""); got != "debug" {
		t.Fatalf("log_level: got %q", got)
	}
	if got := cfg.GetInt("client", "default_max_lines", 0); got != 1000 {
		t.Fatalf("default_max_lines not filled: %d", got)
	}
	if cfg.GetBool("transcript", "enabled", true) {
		t.Fatalf("transcript should default to disabled")
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsName)
	if err := os.WriteFile(path, []byte("[client\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsName)
	cfg := Default()
	cfg.Set("client", "queue_size", int64(64))
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := loaded.GetInt("client", "queue_size", 0); got != 64 {
		t.Fatalf("queue_size: got %d", got)
	}
}

func TestDefaultIsIndependentCopy(t *testing.T) {
	a := Default()
	a.Set("client", "layout", "mine")
	b := Default()
	if got := b.GetString("client", "layout", ""); got != "default" {
		t.Fatalf("mutation leaked into defaults: %q", got)
	}
}

func TestPathsUseConfigHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)

	path, err := SettingsPath()
	if err != nil {
		t.Fatalf("SettingsPath: %v", err)
	}
	root, err := Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	if filepath.Dir(path) != root {
		t.Fatalf("settings %q not under root %q", path, root)
	}
	logPath, err := LogPath()
	if err != nil {
		t.Fatalf("LogPath: %v", err)
	}
	if filepath.Base(logPath) != "client.log" {
		t.Fatalf("unexpected log path %q", logPath)
	}
}

func TestTypedGetters(t *testing.T) {
	cfg := Config{
		"s": map[string]interface{}{
			"i":   int64(7),
			"f":   1.5,
			"b":   "true",
			"str": "x",
			"ms":  int64(40),
			"dur": "250ms",
			"neg": int64(-5),
			"n":   "12",
		},
	}
	if cfg.GetInt("s", "i", 0) != 7 {
		t.Fatalf("GetInt")
	}
	if cfg.GetInt("s", "n", 0) != 12 {
		t.Fatalf("GetInt from string")
	}
	if got := cfg.GetDuration("s", "ms", 0); got != 40*time.Millisecond {
		t.Fatalf("GetDuration from int: %v", got)
	}
	if got := cfg.GetDuration("s", "dur", 0); got != 250*time.Millisecond {
		t.Fatalf("GetDuration from string: %v", got)
	}
	if got := cfg.GetDuration("s", "neg", time.Second); got != time.Second {
		t.Fatalf("GetDuration negative: %v", got)
	}
	if !cfg.GetBool("s", "i", false) {
		t.Fatalf("GetBool from int64")
	}
	if cfg.GetInt("s", "f", 0) != 1 {
		t.Fatalf("GetInt from float")
	}
	if !cfg.GetBool("s", "b", false) {
		t.Fatalf("GetBool from string")
	}
	if cfg.GetString("s", "missing", "d") != "d" {
		t.Fatalf("GetString default")
	}
	if cfg.GetInt("nope", "i", 3) != 3 {
		t.Fatalf("missing section default")
	}
}
