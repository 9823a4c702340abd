// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config.go
// Summary: Settings store for texelmud (texelmud.toml).

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const settingsName = "texelmud.toml"

// Config stores configuration sections as TOML-compatible data.
type Config map[string]interface{}

// Section stores key/value pairs for a configuration section.
type Section map[string]interface{}

// Load reads the settings file at path and fills in every missing key from
// the embedded defaults. A missing file is not an error: the defaults are
// written to path so users have something to edit.
func Load(path string) (Config, error) {
	cfg, exists, err := readConfig(path)
	if err != nil {
		return nil, err
	}
	if !exists {
		cfg = Default()
		if err := Save(path, cfg); err != nil {
			return cfg, fmt.Errorf("write default settings: %w", err)
		}
		return cfg, nil
	}
	applyDefaults(cfg)
	return cfg, nil
}

// LoadDefault loads the settings file from the user config directory.
func LoadDefault() (Config, error) {
	path, err := SettingsPath()
	if err != nil {
		cfg := Default()
		return cfg, err
	}
	return Load(path)
}

// Default returns a fresh copy of the embedded defaults.
func Default() Config {
	cfg := make(Config)
	applyDefaults(cfg)
	return cfg
}

// Save writes cfg to path as TOML, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(map[string]interface{}(cfg)); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func readConfig(path string) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	cfg := make(Config)
	if _, err := toml.Decode(string(data), (*map[string]interface{})(&cfg)); err != nil {
		return nil, true, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, true, nil
}
