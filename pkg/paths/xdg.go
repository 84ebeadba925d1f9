// Package paths resolves where preflight keeps its global configuration.
//
// Resolution order:
// 1. PREFLIGHT_HOME (portable root) → $PREFLIGHT_HOME/config
// 2. XDG_CONFIG_HOME → $XDG_CONFIG_HOME/preflight
// 3. Platform default → ~/.config/preflight
package paths

import (
	"os"
	"path/filepath"
)

const appName = "preflight"

// LocalConfigName is the repository-scoped configuration file name.
const LocalConfigName = ".preflight.toml"

// GlobalConfigName is the file name inside ConfigDir.
const GlobalConfigName = "preflight.toml"

// ConfigDir returns the global preflight configuration directory, or "" when
// no home directory can be determined.
func ConfigDir() string {
	if home := os.Getenv("PREFLIGHT_HOME"); home != "" {
		return filepath.Join(home, "config")
	}
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, appName)
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config", appName)
	}
	return ""
}

// GlobalConfigPath returns the path of the global configuration file.
func GlobalConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, GlobalConfigName)
}

// LocalConfigPath returns the repository-scoped configuration path for dir.
func LocalConfigPath(dir string) string {
	return filepath.Join(dir, LocalConfigName)
}
