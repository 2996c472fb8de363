// ABOUTME: Tests for dietplan configuration management.
// ABOUTME: Covers load, save, defaults, .env files, environment overrides, and path expansion.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/dietplan/internal/matcher"
)

func TestDefaults(t *testing.T) {
	cfg := &Config{}

	if got := cfg.GetTolerance(); got != 15 {
		t.Errorf("GetTolerance() = %v, want 15", got)
	}
	if got := cfg.GetLogLevel(); got != "warn" {
		t.Errorf("GetLogLevel() = %q, want warn", got)
	}
	if got := cfg.GetDataDir(); got == "" {
		t.Error("GetDataDir() returned empty string")
	}
	if cfg.StrictBudget {
		t.Error("StrictBudget should default to false")
	}
}

func TestExplicitValues(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/dietplan-test", TolerancePct: 10, LogLevel: "debug"}

	if got := cfg.GetDataDir(); got != "/tmp/dietplan-test" {
		t.Errorf("GetDataDir() = %q", got)
	}
	if got := cfg.GetTolerance(); got != 10 {
		t.Errorf("GetTolerance() = %v, want 10", got)
	}
	if got := cfg.GetLogLevel(); got != "debug" {
		t.Errorf("GetLogLevel() = %q, want debug", got)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/tmp/foo", "/tmp/foo"},
		{"~", home},
		{"~/data/dietplan", filepath.Join(home, "data/dietplan")},
		{"data/dietplan", "data/dietplan"},
	}

	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGetDataDirExpandsTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	cfg := &Config{DataDir: "~/dietplan-data"}
	if got, want := cfg.GetDataDir(), filepath.Join(home, "dietplan-data"); got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg.DataDir != "" || cfg.TolerancePct != 0 {
		t.Errorf("expected zero config, got %+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := &Config{DataDir: "/tmp/dietplan-data", TolerancePct: 12.5, LogLevel: "info", StrictBudget: true}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("loaded %+v, want %+v", *loaded, *cfg)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "nonexistent"))

	if err := (&Config{}).Save(); err != nil {
		t.Fatalf("Save() should create directory: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "nonexistent", "dietplan")); os.IsNotExist(err) {
		t.Error("Expected config directory to be created")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, "dietplan")
	os.MkdirAll(configDir, 0755)
	os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json"), 0600)

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid JSON config")
	}
}

func TestGetConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	if got, want := GetConfigPath(), filepath.Join(tmpDir, "dietplan", "config.json"); got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvDataDir, "/srv/dietplan")
	t.Setenv(EnvTolerance, "20")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvStrictBudget, "true")

	cfg := &Config{DataDir: "/from/file", TolerancePct: 10}
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv() failed: %v", err)
	}

	want := Config{DataDir: "/srv/dietplan", TolerancePct: 20, LogLevel: "debug", StrictBudget: true}
	if *cfg != want {
		t.Errorf("got %+v, want %+v", *cfg, want)
	}
}

func TestApplyEnvRejectsBadValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{EnvTolerance, "abc"},
		{EnvTolerance, "0"},
		{EnvTolerance, "150"},
		{EnvStrictBudget, "sometimes"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if err := (&Config{}).ApplyEnv(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	os.WriteFile(envFile, []byte("DIETPLAN_TOLERANCE=25\nDIETPLAN_LOG_LEVEL=info\n"), 0600)

	// Already-set variables win over the file.
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvTolerance, "")
	os.Unsetenv(EnvTolerance)

	if err := LoadEnvFiles(filepath.Join(dir, "missing.env"), envFile); err != nil {
		t.Fatalf("LoadEnvFiles() failed: %v", err)
	}

	cfg := &Config{}
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv() failed: %v", err)
	}
	if cfg.TolerancePct != 25 {
		t.Errorf("TolerancePct = %v, want 25", cfg.TolerancePct)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want error", cfg.LogLevel)
	}
}

func TestResolve(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())
	t.Setenv(EnvTolerance, "30")

	if err := (&Config{TolerancePct: 10, LogLevel: "info"}).Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	cfg, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if cfg.TolerancePct != 30 || cfg.LogLevel != "info" {
		t.Errorf("unexpected resolved config %+v", cfg)
	}
}

func TestResolveRejectsNegativeTolerance(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())
	t.Setenv(EnvTolerance, "")

	if err := (&Config{TolerancePct: -5}).Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	_, err := Resolve()
	if !errors.Is(err, matcher.ErrInvalidTolerance) {
		t.Errorf("Resolve() error = %v, want ErrInvalidTolerance", err)
	}
}

func TestOpenStorage(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &Config{DataDir: tmpDir}

	db, err := cfg.OpenStorage()
	if err != nil {
		t.Fatalf("OpenStorage() failed: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Join(tmpDir, "dietplan.db")); os.IsNotExist(err) {
		t.Error("Expected dietplan.db to be created")
	}
}

func TestConfigJSONOmitsEmpty(t *testing.T) {
	data, err := json.Marshal(&Config{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("Expected empty JSON object, got %s", string(data))
	}
}
