// Package config loads and saves the user configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	AppName  = "focus-title"
	FileName = AppName + ".yml"
)

type Config struct {
	DataFolder       string        `mapstructure:"data_folder"`
	DatabaseFile     string        `mapstructure:"database_file"`
	AutosaveInterval time.Duration `mapstructure:"autosave_interval"`
	RefreshInterval  time.Duration `mapstructure:"refresh_interval"`
	ExportFolder     string        `mapstructure:"export_folder"`
	LogLevel         string        `mapstructure:"log_level"`

	path string
	v    *viper.Viper
}

// DefaultPath returns $XDG_CONFIG_HOME/focus-title/focus-title.yml, falling back to
// ~/.config (or AppData\Roaming on Windows).
func DefaultPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("error getting user home directory: %w", err)
		}
		if runtime.GOOS == "windows" {
			configHome = filepath.Join(homeDir, "AppData", "Roaming")
		} else {
			configHome = filepath.Join(homeDir, ".config")
		}
	}
	return filepath.Join(configHome, AppName, FileName), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_folder", "./data")
	v.SetDefault("database_file", "focus_title.db")
	v.SetDefault("autosave_interval", "60s")
	v.SetDefault("refresh_interval", "100ms")
	v.SetDefault("export_folder", filepath.Join("~", "Downloads"))
	v.SetDefault("log_level", "info")
}

// Load reads the file at path, writing one with default values when it does not exist.
// An empty path means DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("FOCUS_TITLE")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := v.WriteConfigAs(path); err != nil {
			return nil, fmt.Errorf("error creating config file: %w", err)
		}
	}

	cfg := &Config{path: path, v: v}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}
	if cfg.AutosaveInterval <= 0 {
		return nil, fmt.Errorf("autosave_interval must be positive, got %s", cfg.AutosaveInterval)
	}
	if cfg.RefreshInterval <= 0 {
		return nil, fmt.Errorf("refresh_interval must be positive, got %s", cfg.RefreshInterval)
	}
	return cfg, nil
}

// Path is the file the configuration was read from.
func (c *Config) Path() string {
	return c.path
}

// DatabasePath joins the data folder and the database file name. An absolute
// database_file is returned as is.
func (c *Config) DatabasePath() string {
	if filepath.IsAbs(c.DatabaseFile) {
		return c.DatabaseFile
	}
	return filepath.Join(expandHome(c.DataFolder), c.DatabaseFile)
}

// LogDir is where the rotated log file is written.
func (c *Config) LogDir() string {
	return filepath.Join(expandHome(c.DataFolder), "logs")
}

// ExportDir is the expanded export folder.
func (c *Config) ExportDir() string {
	return expandHome(c.ExportFolder)
}

// Save writes the current values back to the config file.
func (c *Config) Save() error {
	if c.v == nil {
		return errors.New("config was not loaded from a file")
	}
	c.v.Set("data_folder", c.DataFolder)
	c.v.Set("database_file", c.DatabaseFile)
	c.v.Set("autosave_interval", c.AutosaveInterval.String())
	c.v.Set("refresh_interval", c.RefreshInterval.String())
	c.v.Set("export_folder", c.ExportFolder)
	c.v.Set("log_level", c.LogLevel)
	if err := c.v.WriteConfigAs(c.path); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, `~\`) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}
