// Package filesystem resolves the ~/.tunemate layout shared by config,
// history and the response cache.
package filesystem

import (
	"os"
	"path/filepath"
	"strings"
)

// EnvHome relocates the whole ~/.tunemate tree.
const EnvHome = "TUNEMATE_HOME"

const dirPermissions = 0o755

// UserHomeDir returns the current user's home directory, or "." when it
// cannot be determined.
func UserHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// AppDir is $TUNEMATE_HOME when set, else ~/.tunemate.
func AppDir() string {
	if dir := os.Getenv(EnvHome); dir != "" {
		return ExpandHome(dir)
	}
	return filepath.Join(UserHomeDir(), ".tunemate")
}

// AppPath joins elem under AppDir.
func AppPath(elem ...string) string {
	return filepath.Join(append([]string{AppDir()}, elem...)...)
}

// ExpandHome resolves a leading ~/ against the home directory and cleans
// relative paths. Empty stays empty.
func ExpandHome(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if path == "~" {
		return UserHomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), dirPermissions)
}
