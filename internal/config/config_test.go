package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		ServerPort:        "8080",
		DatabaseURL:       "postgres://localhost:5432/horoscope",
		JWTSecret:         "secret",
		JWTAccessTTL:      15 * time.Minute,
		JWTRefreshTTL:     720 * time.Hour,
		PasswordMinLength: 8,
		RequestTimeout:    30 * time.Second,
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWTSecret = "   "
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})

	t.Run("refresh ttl must exceed access ttl", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWTRefreshTTL = cfg.JWTAccessTTL
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_REFRESH_TTL")
	})

	t.Run("password minimum floor", func(t *testing.T) {
		cfg := validConfig()
		cfg.PasswordMinLength = 4
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PASSWORD_MIN_LENGTH")
	})

	t.Run("empty database url", func(t *testing.T) {
		cfg := validConfig()
		cfg.DatabaseURL = ""
		assert.Error(t, cfg.Validate())
	})
}

func TestLoad(t *testing.T) {
	t.Run("defaults with secret set", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.ServerPort)
		assert.Equal(t, 15*time.Minute, cfg.JWTAccessTTL)
		assert.Equal(t, 720*time.Hour, cfg.JWTRefreshTTL)
		assert.Equal(t, 8, cfg.PasswordMinLength)
		assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
		assert.Equal(t, 10, cfg.AuthRateLimitRPM)
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("JWT_ACCESS_TTL", "5m")
		t.Setenv("CORS_ORIGINS", "https://app.example.com, https://admin.example.com")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.ServerPort)
		assert.Equal(t, 5*time.Minute, cfg.JWTAccessTTL)
		assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	})

	t.Run("unparseable values fall back to defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("JWT_ACCESS_TTL", "soon")
		t.Setenv("RATE_LIMIT_RPM", "many")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 15*time.Minute, cfg.JWTAccessTTL)
		assert.Equal(t, 100, cfg.RateLimitRPM)
	})
}
