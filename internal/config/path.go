// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	// First expand tilde if present
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	// Then expand environment variables
	return os.ExpandEnv(path)
}

// Dir returns the application's configuration directory.
func Dir() string {
	return ExpandPath("~/.config/parafile")
}

// DefaultRulesPath returns the default location of the rules document
// holding categories, variables, and the watched folder.
func DefaultRulesPath() string {
	return filepath.Join(Dir(), "rules.json")
}

// DefaultDatabasePath returns the default location of the history
// database.
func DefaultDatabasePath() string {
	return ExpandPath("~/.local/share/parafile/parafile.db")
}
