// ABOUTME: Dietplan configuration management with environment overrides.
// ABOUTME: Handles the JSON config file, .env loading, and the storage factory function.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/harperreed/dietplan/internal/matcher"
	"github.com/harperreed/dietplan/internal/storage"
	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvDataDir      = "DIETPLAN_DATA_DIR"
	EnvTolerance    = "DIETPLAN_TOLERANCE"
	EnvLogLevel     = "DIETPLAN_LOG_LEVEL"
	EnvStrictBudget = "DIETPLAN_STRICT_BUDGET"
)

// Config stores dietplan configuration.
type Config struct {
	// DataDir is the root directory for data storage. dietplan.db lives here.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/dietplan.
	DataDir string `json:"data_dir,omitempty"`

	// TolerancePct is the per-macro swap tolerance in percent. Defaults to 15.
	TolerancePct float64 `json:"tolerance_pct,omitempty"`

	// LogLevel is a zap level name. Defaults to "warn" so CLI output stays clean.
	LogLevel string `json:"log_level,omitempty"`

	// StrictBudget drops meals above the profile's budget tier when a
	// cheaper alternative exists.
	StrictBudget bool `json:"strict_budget,omitempty"`
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetTolerance returns the configured tolerance, defaulting to 15% when unset.
func (c *Config) GetTolerance() float64 {
	if c.TolerancePct <= 0 {
		return matcher.DefaultTolerancePct
	}
	return c.TolerancePct
}

// GetLogLevel returns the configured log level, defaulting to "warn".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "warn"
	}
	return c.LogLevel
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage opens the SQLite database in the configured data directory.
func (c *Config) OpenStorage() (*storage.DB, error) {
	return storage.Open(filepath.Join(c.GetDataDir(), "dietplan.db"))
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "dietplan", "config.json")
}

// Load reads config from disk.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadEnvFiles loads variables from .env files into the process
// environment without overriding variables that are already set. Missing
// files are skipped. With no arguments it reads ./.env.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides config fields from DIETPLAN_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvTolerance); v != "" {
		pct, err := strconv.ParseFloat(v, 64)
		if err != nil || pct <= 0 || pct > 100 {
			return fmt.Errorf("%s must be a percentage in (0, 100], got %q", EnvTolerance, v)
		}
		c.TolerancePct = pct
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvStrictBudget); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s must be a boolean, got %q", EnvStrictBudget, v)
		}
		c.StrictBudget = strict
	}
	return nil
}

// Resolve loads .env files, the config file, and environment overrides, in
// that order of increasing precedence.
func Resolve() (*Config, error) {
	if err := LoadEnvFiles(); err != nil {
		return nil, err
	}
	cfg, err := Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := matcher.ValidateTolerance(cfg.TolerancePct); err != nil {
		return nil, fmt.Errorf("config %s: %w", GetConfigPath(), err)
	}
	return cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
