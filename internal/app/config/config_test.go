package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_EnvDefaults(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "test-secret")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, EnvLocal, cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 365*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "5000", cfg.HTTPServer.Port)
	assert.Equal(t, "Plant-Net", cfg.MongoDB.Database)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:5174"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 5, cfg.Notification.MaxAttempts)
}

func TestLoadConfig_MissingFileFallsBackToEnv(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "test-secret")
	t.Setenv("ENV", "production")

	cfg, err := LoadConfig(t.TempDir() + "/missing.yaml")
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
}

func TestLoadConfig_SecretRequired(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "")
	require.NoError(t, os.Unsetenv("ACCESS_TOKEN_SECRET"))

	_, err := LoadConfig("")
	assert.Error(t, err)
}
