// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/paths.go
// Summary: Path helpers for texelmud configuration.

package config

import (
	"os"
	"path/filepath"
)

// Root returns the texelmud directory inside the user config dir.
func Root() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "texelmud"), nil
}

// SettingsPath is where texelmud.toml lives.
func SettingsPath() (string, error) {
	return under(settingsName)
}

// LogPath is the client log file used while the TUI owns the terminal.
func LogPath() (string, error) {
	return under("logs", "client.log")
}

// TranscriptPath is the default session transcript database.
func TranscriptPath() (string, error) {
	return under("transcript.db")
}

// LayoutDir holds user layout files.
func LayoutDir() (string, error) {
	return under("layouts")
}

func under(parts ...string) (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{root}, parts...)...), nil
}
