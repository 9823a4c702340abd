// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/embedded.go
// Summary: Loads and caches parsed defaults from the embedded settings file.
// The embedded texelmud.toml in defaults/ is the single source of truth.

package config

import (
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/framegrace/texelmud/defaults"
)

var (
	embeddedOnce sync.Once
	embedded     Config
	embeddedErr  error
)

// embeddedDefaults returns the parsed embedded settings.
// The result is cached after the first call and must not be mutated.
func embeddedDefaults() (Config, error) {
	embeddedOnce.Do(func() {
		data, err := defaults.Settings()
		if err != nil {
			embeddedErr = err
			return
		}
		cfg := make(Config)
		if _, err := toml.Decode(string(data), (*map[string]interface{})(&cfg)); err != nil {
			embeddedErr = err
			return
		}
		embedded = cfg
	})
	return embedded, embeddedErr
}
