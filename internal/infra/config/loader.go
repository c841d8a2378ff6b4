// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// ConfigFileName is the name of the configuration file under the data
// directory.
const ConfigFileName = "config.toml"

// envNamespace prefixes every environment override, e.g. TASKGATE_DATA_DIR.
const envNamespace = "TASKGATE"

// Config holds all tunable settings. Values are resolved in three layers:
// built-in defaults, then the TOML file, then environment overrides.
type Config struct {
	// DataDir is the root directory for task records, approvals, reports
	// and logs.
	DataDir string `toml:"data_dir"`

	// ApprovalTimeout bounds how long an issued approval token stays valid.
	ApprovalTimeout time.Duration `toml:"approval_timeout"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// ReportsEnabled toggles regeneration of REVIEW.md and FLOW.md after
	// mutating operations.
	ReportsEnabled bool `toml:"reports_enabled"`
}

// envOverrides carries the environment layer. Pointer fields stay nil when
// the variable is unset, so an absent override never clobbers a file value.
type envOverrides struct {
	DataDir         *string        `envconfig:"DATA_DIR"`
	ApprovalTimeout *time.Duration `envconfig:"APPROVAL_TIMEOUT"`
	LogLevel        *string        `envconfig:"LOG_LEVEL"`
	ReportsEnabled  *bool          `envconfig:"REPORTS_ENABLED"`
}

// NewDefault returns the built-in defaults.
func NewDefault() *Config {
	return &Config{
		DataDir:         ".taskgate",
		ApprovalTimeout: 24 * time.Hour,
		LogLevel:        "info",
		ReportsEnabled:  true,
	}
}

// SlogLevel parses LogLevel, falling back to info on unknown values.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Loader loads configuration from a TOML file with environment overrides.
type Loader struct {
	dataDir string
}

// NewLoader creates a new Loader. dataDir may be empty, in which case the
// default data directory (or the TASKGATE_DATA_DIR override) is used.
func NewLoader(dataDir string) *Loader {
	return &Loader{dataDir: dataDir}
}

// Load returns the merged configuration: defaults, then the config file under
// the data directory, then environment variables. The data directory itself
// can only come from the constructor argument, the environment, or the
// default; a data_dir key inside the file is ignored so that the file's
// location stays authoritative.
func (l *Loader) Load() (*Config, error) {
	cfg := NewDefault()

	// The env override for the data dir has to be applied before we know
	// where to look for the file.
	var env envOverrides
	if err := envconfig.Process(envNamespace, &env); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if l.dataDir != "" {
		cfg.DataDir = l.dataDir
	} else if env.DataDir != nil && *env.DataDir != "" {
		cfg.DataDir = *env.DataDir
	}

	fileCfg, err := l.loadFile(filepath.Join(cfg.DataDir, ConfigFileName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if fileCfg != nil {
		if err := mergeInto(cfg, fileCfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg, &env)
	return cfg, nil
}

// fileConfig mirrors Config with pointer fields so absent keys can be told
// apart from explicit zero values.
type fileConfig struct {
	// ApprovalTimeout is a duration string such as "2h" or "30m".
	ApprovalTimeout *string `toml:"approval_timeout"`
	LogLevel        *string `toml:"log_level"`
	ReportsEnabled  *bool   `toml:"reports_enabled"`
}

// loadFile reads and parses a single TOML file.
func (l *Loader) loadFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg fileConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

func mergeInto(base *Config, file *fileConfig) error {
	if file.ApprovalTimeout != nil {
		d, err := time.ParseDuration(*file.ApprovalTimeout)
		if err != nil {
			return fmt.Errorf("parse approval_timeout: %w", err)
		}
		if d > 0 {
			base.ApprovalTimeout = d
		}
	}
	if file.LogLevel != nil && *file.LogLevel != "" {
		base.LogLevel = *file.LogLevel
	}
	if file.ReportsEnabled != nil {
		base.ReportsEnabled = *file.ReportsEnabled
	}
	return nil
}

func applyEnv(base *Config, env *envOverrides) {
	if env.ApprovalTimeout != nil && *env.ApprovalTimeout > 0 {
		base.ApprovalTimeout = *env.ApprovalTimeout
	}
	if env.LogLevel != nil && *env.LogLevel != "" {
		base.LogLevel = *env.LogLevel
	}
	if env.ReportsEnabled != nil {
		base.ReportsEnabled = *env.ReportsEnabled
	}
}
