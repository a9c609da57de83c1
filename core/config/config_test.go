package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "(default)", cfg.Source.Database)
	assert.Equal(t, "https://firestore.googleapis.com", cfg.Source.Endpoint)
	assert.Equal(t, 30, cfg.Source.TimeoutSeconds)
	assert.Equal(t, 300, cfg.Source.PageSize)
	assert.Equal(t, "(default)", cfg.Target.Database)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.False(t, cfg.Storage.Enabled)
	assert.False(t, cfg.Database.Enabled)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SOURCE_PROJECT", "prod-project")
	t.Setenv("SOURCE_TOKEN", "prod-token")
	t.Setenv("TARGET_PROJECT", "staging-project")
	t.Setenv("TARGET_ENDPOINT", "http://localhost:8200")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "prod-project", cfg.Source.Project)
	assert.Equal(t, "prod-token", cfg.Source.Token)
	assert.Equal(t, "staging-project", cfg.Target.Project)
	assert.Equal(t, "http://localhost:8200", cfg.Target.Endpoint)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestLoadConfig_DotEnvFile(t *testing.T) {
	// Register cleanup so the variable godotenv writes is restored.
	t.Setenv("SOURCE_PROJECT", "")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/.env", []byte("SOURCE_PROJECT=from-dotenv\n"), 0o644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Source.Project)
}
