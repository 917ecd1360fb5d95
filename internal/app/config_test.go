package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CSRF_SECRET", "csrf")
	t.Setenv("AUTH_JWT_SECRET", "jwt")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.Equal(t, "/login", cfg.LoginURL)
	assert.Equal(t, 5000, cfg.DirectoryMaxRecords)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoadConfigRequiresSecrets(t *testing.T) {
	t.Setenv("CSRF_SECRET", "")
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigRejectsBadCeiling(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DIRECTORY_MAX_RECORDS", "0")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigTimezone(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_TIMEZONE", "Europe/Kyiv")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Kyiv", cfg.Location().String())

	t.Setenv("APP_TIMEZONE", "Mars/Olympus")
	_, err = LoadConfig()
	require.Error(t, err)
}
