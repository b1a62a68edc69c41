// Package paths resolves configuration and database file locations for
// the rowgate CLI.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// CWD-relative default names.
const (
	DefaultConfigDirName = ".rowgate"
	DefaultDatabaseName  = "rowgate.db"
)

// Environment variable names for overrides.
const (
	EnvConfigDir = "ROWGATE_CONFIG_DIR"
	EnvDatabase  = "ROWGATE_DATABASE"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/rowgate (fallback ~/.config/rowgate)
// macOS:   ~/Library/Application Support/rowgate
// Windows: %APPDATA%/rowgate
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "rowgate"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "rowgate"), nil
	default:
		// macOS and Windows use os.UserConfigDir which returns
		// ~/Library/Application Support on macOS and %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "rowgate"), nil
	}
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > ROWGATE_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDatabase returns the database path following the precedence
// chain: flag > configValue > ROWGATE_DATABASE env > CWD default.
func ResolveDatabase(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvDatabase); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDatabaseName), nil
}
