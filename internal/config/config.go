// Package config loads optional tool defaults from a field-sorter.toml
// file next to the processed path. Command-line flags always win over
// file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the manifest looked up next to the processed path.
const FileName = "field-sorter.toml"

// File holds defaults a project can pin in its manifest.
type File struct {
	Extensions []string `toml:"extensions"`
	Recursive  *bool    `toml:"recursive"`
	Workers    int      `toml:"workers"`
}

// Load reads the manifest that governs path: the first field-sorter.toml
// found walking from the path's directory upwards. Returns nil when no
// manifest exists.
func Load(path string) (*File, error) {
	dir := path
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		dir = filepath.Dir(path)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return parse(candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

func parse(path string) (*File, error) {
	var file File
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parsing %s: unknown key %q", path, undecoded[0].String())
	}
	return &file, nil
}
