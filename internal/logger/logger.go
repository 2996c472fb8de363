// ABOUTME: Structured logger construction for dietplan.
// ABOUTME: Wraps zap with environment-driven encoder and level selection.
package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger writing to stderr. env "production" selects the JSON
// encoder; anything else gets the console development encoder. level is a
// zap level name ("debug", "info", "warn", "error"); empty means "info".
func New(env, level string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", level, err)
		}
	}

	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build()
}

// FromEnv builds a logger from DIETPLAN_ENV and the given level, falling
// back to a no-op logger if construction fails so the CLI keeps working.
func FromEnv(level string) *zap.Logger {
	l, err := New(os.Getenv("DIETPLAN_ENV"), level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return zap.NewNop()
	}
	return l
}

// Sync flushes buffered entries, ignoring the EINVAL stderr returns on some platforms.
func Sync(l *zap.Logger) {
	_ = l.Sync()
}
