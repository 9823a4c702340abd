// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Default values for the settings file.

package config

import "time"

// Fallbacks used when neither the settings file nor the embedded defaults
// carry a key.
const (
	DefaultFrame         = 33 * time.Millisecond
	DefaultQueueSize     = 1024
	DefaultDrainPerFrame = 512
	DefaultLayoutName    = "default"
)

func applyDefaults(cfg Config) {
	if cfg == nil {
		return
	}
	base, err := embeddedDefaults()
	if err != nil || base == nil {
		cfg.RegisterDefaults("client", Section{
			"frame_ms":          int64(DefaultFrame / time.Millisecond),
			"default_max_lines": int64(1000),
			"log_level":         "info",
			"layout":            DefaultLayoutName,
			"queue_size":        int64(DefaultQueueSize),
			"drain_per_frame":   int64(DefaultDrainPerFrame),
		})
		cfg.RegisterDefaults("transcript", Section{
			"enabled": false,
			"path":    "",
		})
		return
	}
	fresh := Clone(base)
	for name := range fresh {
		cfg.RegisterDefaults(name, fresh.Section(name))
	}
}
