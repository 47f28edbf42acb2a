package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/solarhub")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("JWT_EXPIRES_MINUTES", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddress())
	assert.Equal(t, 30*time.Minute, cfg.JWTExpiration())
	assert.Equal(t, "Indian/Mauritius", cfg.Energy.DefaultTimezone)
	assert.Equal(t, 24*time.Hour, cfg.RedexPushInterval())
}

func TestLoadRequiresDSNAndSecret(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("POSTGRES_DSN", "postgres://localhost/solarhub")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "secret")
	_, err = Load()
	require.NoError(t, err)
}

func TestHTTPAddressNormalization(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, ":8080", cfg.HTTPAddress())

	cfg.HTTP.Port = ":7000"
	assert.Equal(t, ":7000", cfg.HTTPAddress())

	cfg.HTTP.Port = "7000"
	assert.Equal(t, ":7000", cfg.HTTPAddress())
}
