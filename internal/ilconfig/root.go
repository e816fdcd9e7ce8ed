// Package ilconfig locates and parses amini.toml, the per-directory
// project config carrying a default pass pipeline, a default
// breakpoint list, and trace/output settings.
package ilconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FindAminiToml walks up from startDir looking for amini.toml, the same
// parent-directory walk the teacher's project manifest lookup does for
// its own TOML config.
func FindAminiToml(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "amini.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}
