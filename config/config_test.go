package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost:5432/workspace")
	t.Setenv("IDENTITY_URL", "https://identity.example.com")
	t.Setenv("IDENTITY_ANON_KEY", "anon-key")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 10*time.Second, cfg.Identity.Timeout)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Zero(t, cfg.Database.MaxConns, "pool sizing is left to the driver unless set")
}

func TestLoad_MaxConnsOverride(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_MAX_CONNS", "25")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Database.MaxConns)
}

func TestLoad_MissingIdentityURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("IDENTITY_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IDENTITY_URL")
}

func TestLoad_MissingAnonKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("IDENTITY_ANON_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IDENTITY_ANON_KEY")
}

func TestLoad_MissingDSN(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_DSN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DSN")
}

func TestLoad_TimeoutOverride(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("IDENTITY_TIMEOUT_SECONDS", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.Identity.Timeout)
}
