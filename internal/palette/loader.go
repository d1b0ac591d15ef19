package palette

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Loader resolves palettes by name or path.
type Loader struct {
	ConfigDir string
	SystemDir string
}

// NewLoader creates a Loader with standard paths.
func NewLoader() *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{
		ConfigDir: filepath.Join(home, ".config", "cosketch", "palettes"),
		SystemDir: "/usr/share/cosketch/palettes",
	}
}

// Load resolves a palette. Order: explicit file path, ConfigDir, SystemDir.
// An empty name yields the default palette.
func (l *Loader) Load(name string) (*Palette, error) {
	if name == "" || name == "default" {
		return Default(), nil
	}

	if _, err := os.Stat(name); err == nil {
		return parseFile(name)
	}

	filename := name
	if !strings.HasSuffix(filename, ".palette") {
		filename += ".palette"
	}
	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return parseFile(path)
		}
	}
	return nil, fmt.Errorf("palette '%s' not found", name)
}

func parseFile(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}
