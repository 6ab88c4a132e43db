// Package config loads the application configuration. A missing file
// is fine: every key has a default, and NOTEDESK_* environment
// variables override both.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Database    DatabaseConfig    `mapstructure:"database"`
	Attachments AttachmentsConfig `mapstructure:"attachments"`
	UI          UIConfig          `mapstructure:"ui"`
	LogLevel    string            `mapstructure:"log_level"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type AttachmentsConfig struct {
	Dir string `mapstructure:"dir"`
}

type UIConfig struct {
	Theme string `mapstructure:"theme"`
}

// Load reads the config file at path, or the default location
// (~/.notedesk/config.yaml) when path is empty.
func Load(path string) (Config, error) {
	v := viper.New()

	dataDir := defaultDataDir()
	v.SetDefault("database.path", filepath.Join(dataDir, "notedesk.db"))
	v.SetDefault("attachments.dir", filepath.Join(dataDir, "attachments"))
	v.SetDefault("ui.theme", "dark")
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("NOTEDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dataDir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".notedesk"
	}
	return filepath.Join(home, ".notedesk")
}
