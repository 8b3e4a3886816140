package main

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jwebster45206/storyplaces/pkg/story"
)

var storyFilenamePattern = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)

// checkFilename enforces lowercase snake_case names with a story extension,
// matching how the API addresses story files.
func checkFilename(path string) error {
	base := filepath.Base(path)
	if !story.SupportedFile(base) {
		return fmt.Errorf("story file must have a .json, .yaml or .yml extension: %s", base)
	}
	if !storyFilenamePattern.MatchString(strings.TrimSuffix(base, filepath.Ext(base))) {
		return fmt.Errorf("story filename '%s' must be lowercase snake_case (e.g., harbour_walk.json)", base)
	}
	return nil
}
