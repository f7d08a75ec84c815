// Package config assembles process configuration from the environment. A
// .env file in the working directory is read first when present.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/alexanderramin/edutrack/internal/remote"
)

type Config struct {
	DBPath   string
	LogLevel slog.Level
	Remote   remote.Config
}

// Load reads .env (if any) and the EDU_* variables. Variables already set in
// the environment win over .env entries.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		LogLevel: ParseLevel(os.Getenv("EDU_LOG_LEVEL")),
		Remote:   remote.LoadConfig(),
	}

	cfg.DBPath = os.Getenv("EDU_DB")
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".edutrack", "edutrack.db")
	}
	return cfg, nil
}

// ParseLevel maps a level name to a slog level. Unknown names mean warn.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// NewLogger returns a text logger on stderr at the configured level.
func (c Config) NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.LogLevel}))
}
