package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/satzkarte/internal/paths"
	"github.com/mesh-intelligence/satzkarte/internal/render"
	"github.com/mesh-intelligence/satzkarte/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyDataDir      = "data_dir"
	cfgKeyAssetDir     = "asset_dir"
	cfgKeyOrganization = "organization"
	cfgKeyTimezone     = "timezone"
	cfgKeyLogLevel     = "log_level"
	cfgKeyLogFormat    = "log_format"
)

// settings is the content of config.yaml.
type settings struct {
	DataDir      string `yaml:"data_dir,omitempty"`
	AssetDir     string `yaml:"asset_dir,omitempty"`
	Organization string `yaml:"organization"`
	Timezone     string `yaml:"timezone"`
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`
}

func defaultSettings() settings {
	return settings{
		Organization: render.DefaultOrganization,
		Timezone:     types.DefaultTimezone,
		LogLevel:     "info",
		LogFormat:    "console",
	}
}

// loadConfig reads config.yaml from configDir using Viper, creating the
// directory and a default file on first run. A missing config.yaml is not
// an error.
func loadConfig(configDir string) (settings, error) {
	if err := writeConfigIfMissing(configDir); err != nil {
		return settings{}, err
	}

	def := defaultSettings()
	v := viper.New()
	v.SetDefault(cfgKeyOrganization, def.Organization)
	v.SetDefault(cfgKeyTimezone, def.Timezone)
	v.SetDefault(cfgKeyLogLevel, def.LogLevel)
	v.SetDefault(cfgKeyLogFormat, def.LogFormat)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	return settings{
		DataDir:      v.GetString(cfgKeyDataDir),
		AssetDir:     v.GetString(cfgKeyAssetDir),
		Organization: v.GetString(cfgKeyOrganization),
		Timezone:     v.GetString(cfgKeyTimezone),
		LogLevel:     v.GetString(cfgKeyLogLevel),
		LogFormat:    v.GetString(cfgKeyLogFormat),
	}, nil
}

// writeConfigIfMissing creates configDir and a default config.yaml if the
// file does not exist. An existing file is left alone.
func writeConfigIfMissing(configDir string) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	path := paths.ConfigFile(configDir)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	cfg := defaultSettings()
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# satzkarte configuration\n# data_dir and asset_dir are optional; see satzkarte --help.\n")
	return os.WriteFile(path, append(header, data...), 0o644)
}
