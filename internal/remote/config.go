package remote

import (
	"os"
	"strconv"
)

// Config holds the remote platform settings.
type Config struct {
	BaseURL         string
	Token           string
	TimeoutMs       int
	MaxRetries      int
	LogCalls        bool
	LessonCacheSize int
	Version         string // reported in the user agent
}

// DefaultConfig returns a Config pointing at the public platform with no
// credentials.
func DefaultConfig() Config {
	return Config{
		BaseURL:         "https://stepik.org",
		TimeoutMs:       10000,
		MaxRetries:      1,
		LessonCacheSize: 256,
		Version:         "unknown",
	}
}

// LoadConfig reads remote configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("EDU_REMOTE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("EDU_REMOTE_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("EDU_REMOTE_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("EDU_REMOTE_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("EDU_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("EDU_REMOTE_LESSON_CACHE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.LessonCacheSize = n
		}
	}
	return cfg
}

// LoggedIn reports whether requests carry a user token.
func (c Config) LoggedIn() bool {
	return c.Token != ""
}
