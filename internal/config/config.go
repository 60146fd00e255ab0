// Package config provides configuration management for tabula with Viper
// integration. Settings come from the TOML config file, TABULA_* environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete configuration for tabula.
type Config struct {
	Wallpaper WallpaperConfig `mapstructure:"wallpaper"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// WallpaperConfig selects what gets painted. Exactly one of Color and Image
// must be set.
type WallpaperConfig struct {
	// Color is a 6-digit hex RGB value, with or without a leading '#'.
	Color string `mapstructure:"color"`
	// Image is the path to the wallpaper image file.
	Image string `mapstructure:"image"`
	// Focus is the image focus point as "x+y" with both in [0,1].
	// Empty means centered. Only meaningful with Image.
	Focus string `mapstructure:"focus"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads the configuration. With an explicit file the file must exist;
// otherwise the default location is searched and a missing file is fine.
func Load(file string) (*Config, error) {
	v := viper.New()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		configDir, err := GetConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config directory: %w", err)
		}
		v.AddConfigPath(configDir)
		v.AddConfigPath(".") // Current directory for development
	}

	v.SetEnvPrefix("TABULA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("wallpaper.color", "")
	v.SetDefault("wallpaper.image", "")
	v.SetDefault("wallpaper.focus", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
