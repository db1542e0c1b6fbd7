// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appName = "tuivoc"

// xdgDir returns the value of env, or the fallback joined under the user's
// home directory. Without a home directory it falls back to ".".
func xdgDir(env string, fallback ...string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

func appDataDir() string {
	return filepath.Join(xdgDir("XDG_DATA_HOME", ".local", "share"), appName)
}

// DefaultDBPath returns the default path for the SQLite database.
func DefaultDBPath() string {
	return filepath.Join(appDataDir(), appName+".db")
}

// DefaultImagesDir returns the directory searched for vocab images.
func DefaultImagesDir() string {
	return filepath.Join(appDataDir(), "images")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), appName, "config.toml")
}
