// Package config loads nrfi settings from defaults, an optional YAML file, NRFI_* environment
// variables and command-line flags, in increasing priority.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. NRFI_STORAGE_DB_PATH.
const EnvPrefix = "NRFI"

// Config is the complete application configuration.
type Config struct {
	Storage     StorageConfig     `mapstructure:"storage"`
	Savant      SavantConfig      `mapstructure:"savant"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Leaderboard LeaderboardConfig `mapstructure:"leaderboard"`
}

// StorageConfig locates the SQLite database and the optional flat CSV table.
type StorageConfig struct {
	DBPath  string `mapstructure:"db_path"`
	CSVPath string `mapstructure:"csv_path"`
}

// SavantConfig configures the statcast search client.
type SavantConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoggingConfig configures the slog handler. File enables rotation through lumberjack.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// MetricsConfig names the node_exporter textfile written after each run. Empty disables it.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// LeaderboardConfig holds leaderboard defaults.
type LeaderboardConfig struct {
	MinGames int `mapstructure:"min_games"`
	Limit    int `mapstructure:"limit"`
}

// DefaultDBPath is ~/.nrfi/nrfi.db, or ./nrfi.db when the home directory is unknown.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "nrfi.db"
	}
	return filepath.Join(home, ".nrfi", "nrfi.db")
}

// FlagKeys maps command-line flag names onto config keys.
var FlagKeys = map[string]string{
	"db":        "storage.db_path",
	"log-level": "logging.level",
}

// Load reads configuration. path may be empty, in which case only defaults, environment
// and flags apply. flags may be nil. Only flags the user set are bound, so an untouched
// flag never shadows the lower layers.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range FlagKeys {
			f := flags.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.db_path", DefaultDBPath())
	v.SetDefault("storage.csv_path", "")

	v.SetDefault("savant.base_url", "https://baseballsavant.mlb.com")
	v.SetDefault("savant.timeout", "60s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 20)
	v.SetDefault("logging.max_backups", 3)

	v.SetDefault("metrics.textfile", "")

	v.SetDefault("leaderboard.min_games", 5)
	v.SetDefault("leaderboard.limit", 25)
}

// Validate checks every section.
func (c *Config) Validate() error {
	if c.Storage.DBPath == "" {
		return fmt.Errorf("storage.db_path is required")
	}

	if !strings.HasPrefix(c.Savant.BaseURL, "http://") && !strings.HasPrefix(c.Savant.BaseURL, "https://") {
		return fmt.Errorf("savant.base_url must be an http(s) URL, got %q", c.Savant.BaseURL)
	}
	if c.Savant.Timeout <= 0 {
		return fmt.Errorf("savant.timeout must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}
	if c.Logging.File != "" && c.Logging.MaxSizeMB < 1 {
		return fmt.Errorf("logging.max_size_mb must be at least 1")
	}

	if c.Leaderboard.MinGames < 0 {
		return fmt.Errorf("leaderboard.min_games must not be negative")
	}
	if c.Leaderboard.Limit < 0 {
		return fmt.Errorf("leaderboard.limit must not be negative")
	}
	return nil
}
