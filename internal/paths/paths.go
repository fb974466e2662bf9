// Package paths resolves where satzkarte keeps its configuration, its card
// database and the assets printed on cards.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "satzkarte"

// Well-known names.
const (
	DefaultDataDirName = ".satzkarte-db"
	ConfigFileName     = "config.yaml"
	AssetDirName       = "assets"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "SATZKARTE_CONFIG_DIR"
	EnvDataDir   = "SATZKARTE_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	getwd         func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	getwd:         os.Getwd,
}

// DefaultConfigDir returns the platform configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/satzkarte (fallback ~/.config/satzkarte)
// macOS:   ~/Library/Application Support/satzkarte
// Windows: %APPDATA%/satzkarte
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appName), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// ResolveConfigDir applies flag > SATZKARTE_CONFIG_DIR > DefaultConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	if dir := firstSet(flag, os.Getenv(EnvConfigDir)); dir != "" {
		return filepath.Abs(dir)
	}
	return DefaultConfigDir()
}

// ResolveDataDir applies flag > config data_dir > SATZKARTE_DATA_DIR >
// $(CWD)/.satzkarte-db. The card database lives next to where the tool is
// run unless something says otherwise.
func ResolveDataDir(flag, configValue string) (string, error) {
	if dir := firstSet(flag, configValue, os.Getenv(EnvDataDir)); dir != "" {
		return filepath.Abs(dir)
	}
	cwd, err := platformDir.getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ResolveAssetDir returns the config asset_dir value made absolute, or
// configDir/assets when it is unset.
func ResolveAssetDir(configValue, configDir string) (string, error) {
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	return filepath.Join(configDir, AssetDirName), nil
}

// ConfigFile is the path of config.yaml inside configDir.
func ConfigFile(configDir string) string {
	return filepath.Join(configDir, ConfigFileName)
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
