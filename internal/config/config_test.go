package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ReadsDotEnvWithoutOverridingEnvironment(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("EDU_DB=/from/dotenv.db\nEDU_REMOTE_URL=http://dotenv.test\n"), 0o644))

	t.Chdir(dir)

	t.Setenv("EDU_REMOTE_URL", "http://env.test")
	t.Setenv("EDU_LOG_LEVEL", "debug")
	t.Setenv("EDU_DB", "")
	require.NoError(t, os.Unsetenv("EDU_DB"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/from/dotenv.db", cfg.DBPath)
	assert.Equal(t, "http://env.test", cfg.Remote.BaseURL)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoad_DefaultDBPath(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("EDU_DB", "")
	require.NoError(t, os.Unsetenv("EDU_DB"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), ".edutrack", "edutrack.db"), cfg.DBPath)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, ParseLevel("INFO"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(""))
	assert.Equal(t, slog.LevelWarn, ParseLevel("verbose"))
}
