package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DATABASE_URL", "PORT", "STORE_DRIVER", "JWT_SECRET", "CORS_ALLOWED_ORIGINS",
		"TX_MAX_ATTEMPTS", "SETTINGS_CACHE_TTL", "REQUEST_TIMEOUT", "CATALOG_FILE",
		"EMAIL_PROVIDER", "EMAIL_FROM_ADDRESS", "EMAIL_FROM_NAME",
		"AWS_REGION", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("GO_ENV", "test")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 5, cfg.TxMaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.SettingsCacheTTL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "noop", cfg.Email.Provider)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("TX_MAX_ATTEMPTS", "8")
	t.Setenv("SETTINGS_CACHE_TTL", "0s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://fest.example.org, https://admin.fest.example.org ,")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, 8, cfg.TxMaxAttempts)
	assert.Equal(t, time.Duration(0), cfg.SettingsCacheTTL)
	assert.Equal(t, []string{"https://fest.example.org", "https://admin.fest.example.org"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown store driver", env: map[string]string{"STORE_DRIVER": "sqlite"}},
		{name: "non-numeric attempts", env: map[string]string{"TX_MAX_ATTEMPTS": "many"}},
		{name: "zero attempts", env: map[string]string{"TX_MAX_ATTEMPTS": "0"}},
		{name: "bad ttl", env: map[string]string{"SETTINGS_CACHE_TTL": "soon"}},
		{name: "bad timeout", env: map[string]string{"REQUEST_TIMEOUT": "10"}},
		{name: "production without secret", env: map[string]string{"GO_ENV": "production"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
