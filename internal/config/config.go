// Package config loads sitetrack settings from defaults, a YAML config file
// and SITETRACK_* environment variables through viper.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// SITETRACK_STORE_BACKEND.
const EnvPrefix = "SITETRACK"

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

const (
	PolicyLinear    = "linear"
	PolicyMilestone = "milestone"
)

type Config struct {
	Store    StoreConfig    `mapstructure:"store"`
	Timeline TimelineConfig `mapstructure:"timeline"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type StoreConfig struct {
	// Backend is one of sqlite, file or memory.
	Backend string `mapstructure:"backend"`
	// Path is the database or JSON file. Empty means a file under ConfigDir.
	Path string `mapstructure:"path"`
}

type TimelineConfig struct {
	ColumnWidth int `mapstructure:"column_width"`
	// MaxWidth caps the rendered chart in terminal cells. Zero means the
	// terminal width.
	MaxWidth       int    `mapstructure:"max_width"`
	ProgressPolicy string `mapstructure:"progress_policy"`
	MilestoneSteps int    `mapstructure:"milestone_steps"`
}

type LoggingConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Level   string `mapstructure:"level"`
}

func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: BackendSQLite,
		},
		Timeline: TimelineConfig{
			ColumnWidth:    40,
			ProgressPolicy: PolicyLinear,
			MilestoneSteps: 4,
		},
		Logging: LoggingConfig{
			Enabled: false,
			Level:   "info",
		},
	}
}

// SetDefaults registers every default with v so that env overrides work
// for keys absent from the config file.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("store.backend", d.Store.Backend)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("timeline.column_width", d.Timeline.ColumnWidth)
	v.SetDefault("timeline.max_width", d.Timeline.MaxWidth)
	v.SetDefault("timeline.progress_policy", d.Timeline.ProgressPolicy)
	v.SetDefault("timeline.milestone_steps", d.Timeline.MilestoneSteps)
	v.SetDefault("logging.enabled", d.Logging.Enabled)
	v.SetDefault("logging.level", d.Logging.Level)
}

// NewViper returns a viper instance wired for sitetrack: defaults, env
// overrides and, when configFile is empty, the standard search path.
func NewViper(configFile string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file, if any, and returns the validated result. A
// missing file in the search path is not an error; a missing explicit file
// is.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// StorePath resolves the store location, defaulting by backend.
func (c *Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	switch c.Store.Backend {
	case BackendFile:
		return filepath.Join(ConfigDir(), "state.json")
	default:
		return filepath.Join(ConfigDir(), "sitetrack.db")
	}
}

// LogLevel maps Logging.Level onto slog. Unknown values were rejected by
// Validate, so the fallback is never reached in practice.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ConfigDir returns $XDG_CONFIG_HOME/sitetrack, or ~/.config/sitetrack.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "sitetrack")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sitetrack"
	}
	return filepath.Join(home, ".config", "sitetrack")
}
