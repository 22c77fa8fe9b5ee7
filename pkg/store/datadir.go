package store

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// DataDirEnv overrides the data directory when set.
const DataDirEnv = "UNFOLD_DIR"

const appName = "unfold"

// ResolveDataDir picks the data directory: an explicit flag value wins, then
// $UNFOLD_DIR, then the OS default.
func ResolveDataDir(flagValue string) string {
	if dir := strings.TrimSpace(flagValue); dir != "" {
		return dir
	}
	if dir := strings.TrimSpace(os.Getenv(DataDirEnv)); dir != "" {
		return dir
	}
	return DefaultDataDir()
}

// DefaultDataDir returns the OS-appropriate default data directory.
//
//   - macOS:   ~/Library/Application Support/unfold
//   - Linux:   $XDG_DATA_HOME/unfold (fallback ~/.local/share/unfold)
//   - Windows: %LOCALAPPDATA%\unfold (fallback %APPDATA%\unfold)
func DefaultDataDir() string {
	home, _ := os.UserHomeDir()
	return dataDirFor(runtime.GOOS, home, os.Getenv)
}

func dataDirFor(goos, home string, getenv func(string) string) string {
	var candidates []string
	var fallback []string

	switch goos {
	case "darwin":
		fallback = []string{home, "Library", "Application Support"}
	case "windows":
		candidates = []string{"LOCALAPPDATA", "APPDATA"}
		fallback = []string{home}
	default: // linux, freebsd, etc.
		candidates = []string{"XDG_DATA_HOME"}
		fallback = []string{home, ".local", "share"}
	}

	for _, env := range candidates {
		if dir := getenv(env); dir != "" {
			return filepath.Join(dir, appName)
		}
	}
	return filepath.Join(append(fallback, appName)...)
}
