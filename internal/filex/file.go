// Package filex holds small filesystem helpers for the client.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates name under parent (the working directory when parent is
// empty) with owner-only permissions and returns its absolute path. An
// absolute name ignores parent.
func EnsureDir(parent, name string) (string, error) {
	if filepath.IsAbs(name) {
		parent = ""
	} else if parent == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		parent = cwd
	}

	dir, err := filepath.Abs(filepath.Join(parent, name))
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", name, err)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}
