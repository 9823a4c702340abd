// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/types.go
// Summary: Typed access helpers for config store data.

package config

import (
	"strconv"
	"strings"
	"time"
)

// Section returns the named section or nil if missing.
func (c Config) Section(sectionName string) Section {
	if c == nil {
		return nil
	}
	if sectionName == "" {
		return Section(c)
	}
	if raw, ok := c[sectionName]; ok {
		switch v := raw.(type) {
		case Section:
			return v
		case map[string]interface{}:
			return Section(v)
		}
	}
	return nil
}

// RegisterDefaults ensures a section has defaults without overwriting existing keys.
func (c Config) RegisterDefaults(sectionName string, defaults Section) {
	if c == nil || defaults == nil {
		return
	}
	section := c.Section(sectionName)
	if section == nil {
		section = make(Section)
		if sectionName == "" {
			for k, v := range defaults {
				if _, ok := c[k]; !ok {
					c[k] = v
				}
			}
			return
		}
		c[sectionName] = section
	}

	for key, value := range defaults {
		if _, ok := section[key]; !ok {
			section[key] = value
		}
	}
}

// Set stores value under sectionName.key, creating the section if needed.
func (c Config) Set(sectionName, key string, value interface{}) {
	if c == nil {
		return
	}
	section := c.Section(sectionName)
	if section == nil {
		section = make(Section)
		c[sectionName] = section
	}
	section[key] = value
}

func (c Config) lookup(sectionName, key string) (interface{}, bool) {
	section := c.Section(sectionName)
	if section == nil {
		return nil, false
	}
	v, ok := section[key]
	return v, ok
}

// GetString retrieves a string value from the config.
func (c Config) GetString(sectionName, key, defaultValue string) string {
	if v, ok := c.lookup(sectionName, key); ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return defaultValue
}

// GetInt retrieves an integer. TOML integers arrive as int64; numeric
// strings are parsed.
func (c Config) GetInt(sectionName, key string, defaultValue int) int {
	if v, ok := c.lookup(sectionName, key); ok {
		if n, ok := toInt(v); ok {
			return n
		}
	}
	return defaultValue
}

// GetBool retrieves a boolean. Numbers are true when non-zero.
func (c Config) GetBool(sectionName, key string, defaultValue bool) bool {
	v, ok := c.lookup(sectionName, key)
	if !ok {
		return defaultValue
	}
	if b, ok := v.(bool); ok {
		return b
	}
	if str, ok := v.(string); ok {
		if parsed, err := strconv.ParseBool(str); err == nil {
			return parsed
		}
		return defaultValue
	}
	if n, ok := toInt(v); ok {
		return n != 0
	}
	return defaultValue
}

// GetDuration reads either a whole number of milliseconds or a duration
// string such as "250ms". Negative values fall back to defaultValue.
func (c Config) GetDuration(sectionName, key string, defaultValue time.Duration) time.Duration {
	v, ok := c.lookup(sectionName, key)
	if !ok {
		return defaultValue
	}
	if str, ok := v.(string); ok {
		if d, err := time.ParseDuration(str); err == nil {
			if d < 0 {
				return defaultValue
			}
			return d
		}
	}
	if ms, ok := toInt(v); ok && ms >= 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		return parsed, err == nil
	}
	return 0, false
}
