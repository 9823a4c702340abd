// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/layout.go
// Summary: Layout file parsing and validation (TOML, YAML or JSON).
// Usage: ResolveLayout turns a name or path into a window registry.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/framegrace/texelmud/defaults"
	"github.com/framegrace/texelmud/window"
)

// ErrInvalidLayout wraps every validation failure in a layout file.
var ErrInvalidLayout = errors.New("config: invalid layout")

// Format names a layout encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor guesses the encoding from a file extension. Unknown extensions
// are treated as TOML.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	}
	return FormatTOML
}

// LayoutFile is the on-disk shape of a layout.
type LayoutFile struct {
	Width   int            `toml:"width" yaml:"width" json:"width"`
	Height  int            `toml:"height" yaml:"height" json:"height"`
	Windows []WindowConfig `toml:"window" yaml:"window" json:"window"`
}

// WindowConfig is one [[window]] table.
type WindowConfig struct {
	Name     string   `toml:"name" yaml:"name" json:"name"`
	Kind     string   `toml:"kind" yaml:"kind" json:"kind"`
	Scaling  string   `toml:"scaling" yaml:"scaling" json:"scaling"`
	Row      int      `toml:"row" yaml:"row" json:"row"`
	Col      int      `toml:"col" yaml:"col" json:"col"`
	Rows     int      `toml:"rows" yaml:"rows" json:"rows"`
	Cols     int      `toml:"cols" yaml:"cols" json:"cols"`
	MinRows  int      `toml:"min_rows" yaml:"min_rows" json:"min_rows"`
	MaxRows  int      `toml:"max_rows" yaml:"max_rows" json:"max_rows"`
	MinCols  int      `toml:"min_cols" yaml:"min_cols" json:"min_cols"`
	MaxCols  int      `toml:"max_cols" yaml:"max_cols" json:"max_cols"`
	Streams  []string `toml:"streams" yaml:"streams" json:"streams"`
	MaxLines int      `toml:"max_lines" yaml:"max_lines" json:"max_lines"`
}

// ParseLayout decodes data in the given format.
func ParseLayout(data []byte, format Format) (*LayoutFile, error) {
	var lf LayoutFile
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &lf)
	case FormatJSON:
		err = json.Unmarshal(data, &lf)
	case FormatTOML, "":
		_, err = toml.Decode(string(data), &lf)
	default:
		return nil, fmt.Errorf("config: unknown layout format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s layout: %w", format, err)
	}
	return &lf, nil
}

// LoadLayout reads and decodes the layout file at path.
func LoadLayout(path string) (*LayoutFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lf, err := ParseLayout(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lf, nil
}

// DefaultLayout returns the embedded default layout.
func DefaultLayout() (*LayoutFile, error) {
	return embeddedLayout(DefaultLayoutName)
}

func embeddedLayout(name string) (*LayoutFile, error) {
	data, err := defaults.Layout(name)
	if err != nil {
		return nil, fmt.Errorf("layout %q: %w", name, err)
	}
	return ParseLayout(data, FormatTOML)
}

// ResolveLayout finds a layout by path, then by name in the user layout
// directory, then among the embedded layouts.
func ResolveLayout(ref string) (*LayoutFile, error) {
	if ref == "" {
		ref = DefaultLayoutName
	}
	if _, err := os.Stat(ref); err == nil {
		return LoadLayout(ref)
	}
	if dir, err := LayoutDir(); err == nil {
		for _, ext := range []string{".toml", ".yaml", ".yml", ".json"} {
			candidate := filepath.Join(dir, ref+ext)
			if _, err := os.Stat(candidate); err == nil {
				return LoadLayout(candidate)
			}
		}
	}
	return embeddedLayout(ref)
}

// Validate reports every problem in the layout joined into one error.
func (lf *LayoutFile) Validate() error {
	if lf == nil {
		return fmt.Errorf("%w: empty layout", ErrInvalidLayout)
	}
	var errs []error
	bad := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidLayout, fmt.Sprintf(format, args...)))
	}
	if len(lf.Windows) == 0 {
		bad("no windows")
	}
	if lf.Width < 0 || lf.Height < 0 {
		bad("negative terminal size %dx%d", lf.Width, lf.Height)
	}
	seen := make(map[string]bool, len(lf.Windows))
	for i, w := range lf.Windows {
		label := w.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i)
			bad("window %s has no name", label)
		} else if seen[w.Name] {
			bad("duplicate window name %q", w.Name)
		}
		seen[w.Name] = true

		if _, err := window.ParseKind(w.Kind); err != nil {
			bad("window %s: %v", label, err)
		}
		if w.Scaling != "" {
			if _, err := window.ParseScalingClass(w.Scaling); err != nil {
				bad("window %s: %v", label, err)
			}
		}
		if w.Row < 0 || w.Col < 0 {
			bad("window %s: negative position", label)
		}
		if w.Rows < window.MinSize || w.Cols < window.MinSize {
			bad("window %s: size %dx%d below %d", label, w.Cols, w.Rows, window.MinSize)
		}
		if w.MinRows < 0 || w.MaxRows < 0 || w.MinCols < 0 || w.MaxCols < 0 || w.MaxLines < 0 {
			bad("window %s: negative bound", label)
		}
		if w.MaxRows > 0 && w.MinRows > w.MaxRows {
			bad("window %s: min_rows %d > max_rows %d", label, w.MinRows, w.MaxRows)
		} else if !within(w.Rows, w.MinRows, w.MaxRows) {
			bad("window %s: rows %d outside min_rows %d / max_rows %d", label, w.Rows, w.MinRows, w.MaxRows)
		}
		if w.MaxCols > 0 && w.MinCols > w.MaxCols {
			bad("window %s: min_cols %d > max_cols %d", label, w.MinCols, w.MaxCols)
		} else if !within(w.Cols, w.MinCols, w.MaxCols) {
			bad("window %s: cols %d outside min_cols %d / max_cols %d", label, w.Cols, w.MinCols, w.MaxCols)
		}
	}
	return errors.Join(errs...)
}

// within reports whether size lies in [lo, hi]; a zero bound is unset.
func within(size, lo, hi int) bool {
	if lo > 0 && size < lo {
		return false
	}
	return hi <= 0 || size <= hi
}

// Specs converts the file into window specs. The layout must be valid.
func (lf *LayoutFile) Specs() ([]window.Spec, error) {
	if err := lf.Validate(); err != nil {
		return nil, err
	}
	specs := make([]window.Spec, 0, len(lf.Windows))
	for _, w := range lf.Windows {
		kind, _ := window.ParseKind(w.Kind)
		scaling := window.DefaultScaling(kind)
		if w.Scaling != "" {
			scaling, _ = window.ParseScalingClass(w.Scaling)
		}
		specs = append(specs, window.Spec{
			Name:     w.Name,
			Kind:     kind,
			Scaling:  scaling,
			Row:      w.Row,
			Col:      w.Col,
			Rows:     w.Rows,
			Cols:     w.Cols,
			MinRows:  w.MinRows,
			MaxRows:  w.MaxRows,
			MinCols:  w.MinCols,
			MaxCols:  w.MaxCols,
			Streams:  append([]string(nil), w.Streams...),
			MaxLines: w.MaxLines,
		})
	}
	return specs, nil
}

// Registry validates the layout and builds the window registry.
func (lf *LayoutFile) Registry() (*window.Registry, error) {
	specs, err := lf.Specs()
	if err != nil {
		return nil, err
	}
	return window.NewRegistry(lf.Width, lf.Height, specs)
}
