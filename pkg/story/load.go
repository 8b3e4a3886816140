package story

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SupportedFile reports whether name carries a story extension: .json, .yaml or .yml.
func SupportedFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads a story file, decoding YAML or JSON by its extension. Read
// errors wrap the underlying fs error.
func Load(path string) (*Story, error) {
	if !SupportedFile(path) {
		return nil, fmt.Errorf("story file must have a .json, .yaml or .yml extension: %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read story: %w", err)
	}

	var s *Story
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		s, err = ParseYAML(data)
	default:
		s, err = Parse(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return s, nil
}
