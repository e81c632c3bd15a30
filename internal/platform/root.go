package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDataDir is the directory name used by the fs adapter.
const DefaultDataDir = ".estate"

// FindRoot recursively looks upwards for a data directory named DefaultDataDir.
// If found, returns the absolute path of the directory containing it.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if isDir(filepath.Join(dir, DefaultDataDir)) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("root not found")
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
