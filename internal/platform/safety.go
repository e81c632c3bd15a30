package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolveDataPath determines the actual data directory.
// When forceTemp is set, the path is re-rooted under the system temp directory
// unless it already lives there (e.g. a t.TempDir()).
func ResolveDataPath(userPath string, forceTemp bool) string {
	if userPath == "" {
		userPath = DefaultDataDir
	}
	if !forceTemp {
		return userPath
	}

	clean := filepath.Clean(userPath)
	tempRoot := os.TempDir()
	if rel, err := filepath.Rel(tempRoot, clean); err == nil && !strings.HasPrefix(rel, "..") && filepath.IsAbs(clean) {
		return clean
	}

	name := filepath.Base(clean)
	if name == "." || name == string(filepath.Separator) {
		name = "default"
	}
	return filepath.Join(tempRoot, "estate-dev", strings.TrimPrefix(name, "."))
}
