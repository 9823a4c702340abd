// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: defaults/embedded.go
// Summary: Embedded default settings and layout files.

package defaults

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed texelmud.toml layouts/*.toml
var files embed.FS

// Settings returns the embedded texelmud.toml.
func Settings() ([]byte, error) {
	return files.ReadFile("texelmud.toml")
}

// Layout returns the embedded layout with the given name (without extension).
func Layout(name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("layout name is required")
	}
	return files.ReadFile(path.Join("layouts", name+".toml"))
}

// Layouts lists the names of the embedded layouts.
func Layouts() []string {
	entries, err := fs.ReadDir(files, "layouts")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".toml"))
	}
	sort.Strings(names)
	return names
}
