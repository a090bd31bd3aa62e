package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Build metadata, injected at link time via -ldflags. A .version file sitting
// next to the executable, when present, takes precedence over the linked
// version so packaged releases can stamp themselves without a rebuild.
var (
	Version   = "dev"
	Build     = "unknown"
	GitCommit = "unknown"

	versionOnce sync.Once
)

// GetVersion returns the effective version string.
func GetVersion() string {
	versionOnce.Do(func() {
		if fileVersion := readVersionFile(); fileVersion != "" {
			Version = fileVersion
		}
	})
	return Version
}

// GetFullVersion returns the version with build timestamp and commit hash.
func GetFullVersion() string {
	return fmt.Sprintf("%s (build: %s, commit: %s)", GetVersion(), Build, GitCommit)
}

func readVersionFile() string {
	exePath, err := os.Executable()
	if err != nil {
		return ""
	}
	data, err := os.ReadFile(filepath.Join(filepath.Dir(exePath), ".version"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
