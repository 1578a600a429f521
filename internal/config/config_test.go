package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("AUTH_TOKEN_TTL_MINUTES", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5050", cfg.App.Port)
	assert.Equal(t, "supersecretkey", cfg.Auth.JWTSecret)
	assert.Equal(t, 8*time.Hour, cfg.Auth.TokenTTL())
	assert.True(t, cfg.App.IsDevelopment())
}

func TestLoadRequiresSecretOutsideDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("AUTH_JWT_SECRET", "prod-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "prod-secret", cfg.Auth.JWTSecret)
	assert.False(t, cfg.App.IsDevelopment())
}

func TestLoadInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "primary")
	_, err := Load()
	assert.Error(t, err)
}

func TestGetEnvAsIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("AUTH_BCRYPT_COST", "strong")
	assert.Equal(t, 10, getEnvAsInt("AUTH_BCRYPT_COST", 10))
}

func TestRequestTimeout(t *testing.T) {
	assert.Equal(t, time.Duration(0), AppConfig{}.RequestTimeout())
	assert.Equal(t, 5*time.Second, AppConfig{RequestTimeoutSeconds: 5}.RequestTimeout())
}
