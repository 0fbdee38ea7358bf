package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backend names accepted in StorageConfig.Backend.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// StorageConfig selects and locates the task persistence backend.
type StorageConfig struct {
	// Backend is one of "sqlite", "file" or "memory".
	Backend string `mapstructure:"backend" yaml:"backend"`

	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`

	// JSONPath is the payload file used by the file backend.
	JSONPath string `mapstructure:"json_path" yaml:"json_path"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`

	// WeekStart is the weekday in the first grid column ("sunday" or "monday").
	WeekStart string `mapstructure:"week_start" yaml:"week_start"`
}

// LogConfig controls the structured log output. The terminal belongs to the
// UI, so logs go to a file or nowhere.
type LogConfig struct {
	File  string `mapstructure:"file" yaml:"file"`
	Level string `mapstructure:"level" yaml:"level"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// configDir returns ~/.config/monthplanner, or "." if the home directory
// cannot be resolved.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "monthplanner")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/monthplanner/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	dir := configDir()
	return &AppConfig{
		Storage: StorageConfig{
			Backend:    BackendSQLite,
			SQLitePath: filepath.Join(dir, "planner.db"),
			JSONPath:   filepath.Join(dir, "tasks.json"),
		},
		Display: DisplayConfig{
			Theme:     "default",
			WeekStart: "sunday",
		},
		Log: LogConfig{
			File:  filepath.Join(dir, "planner.log"),
			Level: "info",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// A .env file in the working directory is loaded first, and PLANNER_*
// environment variables override file values (PLANNER_STORAGE_BACKEND for
// storage.backend). If the file does not exist, defaults are used.
func LoadConfig(path string) (*AppConfig, error) {
	// A missing .env file is the common case.
	_ = godotenv.Load()

	defaults := defaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("PLANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("storage.backend", defaults.Storage.Backend)
	v.SetDefault("storage.sqlite_path", defaults.Storage.SQLitePath)
	v.SetDefault("storage.json_path", defaults.Storage.JSONPath)
	v.SetDefault("display.theme", defaults.Display.Theme)
	v.SetDefault("display.week_start", defaults.Display.WeekStart)
	v.SetDefault("log.file", defaults.Log.File)
	v.SetDefault("log.level", defaults.Log.Level)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate rejects unknown backend names and week starts.
func (c *AppConfig) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendFile, BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if _, err := c.Display.FirstWeekday(); err != nil {
		return err
	}
	return nil
}

// FirstWeekday parses WeekStart.
func (d DisplayConfig) FirstWeekday() (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(d.WeekStart)) {
	case "", "sunday", "sun":
		return time.Sunday, nil
	case "monday", "mon":
		return time.Monday, nil
	default:
		return time.Sunday, fmt.Errorf("unsupported week_start %q", d.WeekStart)
	}
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("storage", cfg.Storage)
	v.Set("display", cfg.Display)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
