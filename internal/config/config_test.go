package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.App.Env)
	assert.Equal(t, ":8080", cfg.AuthServer.Addr)
	assert.Equal(t, ":8081", cfg.WeatherServer.Addr)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "memory", cfg.Cache.Driver)
	assert.Equal(t, 60, cfg.JWT.ExpireMinutes)
	assert.Equal(t, time.Hour, cfg.AccessTTL())
	assert.Equal(t, 5*time.Minute, cfg.WeatherCacheTTL())
	assert.Equal(t, time.Minute, cfg.RateWindow())
}

func TestLoadYAMLAndEnvExpansion(t *testing.T) {
	t.Setenv("TEST_WEATHER_KEY", "wk-123")

	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
app:
  env: staging
  log_level: debug
auth_server:
  addr: ":9090"
jwt:
  issuer: my-issuer
  expire_minutes: 15
weather:
  api_key: ${TEST_WEATHER_KEY}
  cache_ttl: 30s
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.App.Env)
	assert.Equal(t, ":9090", cfg.AuthServer.Addr)
	assert.Equal(t, "my-issuer", cfg.JWT.Issuer)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL())
	assert.Equal(t, "wk-123", cfg.Weather.APIKey)
	assert.Equal(t, 30*time.Second, cfg.WeatherCacheTTL())
}

func TestEnvOverridesBeatYAML(t *testing.T) {
	t.Setenv("JWT_EXPIRE_MINUTES", "5")
	t.Setenv("GOOGLE_CLIENT_ID", "client-from-env")

	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
jwt:
  expire_minutes: 120
google:
  client_id: client-from-yaml
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.JWT.ExpireMinutes)
	assert.Equal(t, "client-from-env", cfg.Google.ClientID)
}

func TestValidate(t *testing.T) {
	t.Run("postgres sin DSN", func(t *testing.T) {
		var c Config
		c.applyDefaults()
		c.Storage.Driver = "postgres"
		assert.Error(t, c.Validate())
	})

	t.Run("driver desconocido", func(t *testing.T) {
		var c Config
		c.applyDefaults()
		c.Storage.Driver = "sqlite"
		assert.Error(t, c.Validate())
	})

	t.Run("TTL invalido", func(t *testing.T) {
		var c Config
		c.applyDefaults()
		c.Weather.CacheTTL = "cinco minutos"
		assert.Error(t, c.Validate())
	})

	t.Run("prod exige JWT key", func(t *testing.T) {
		var c Config
		c.applyDefaults()
		c.App.Env = "prod"
		assert.Error(t, c.Validate())

		c.JWT.Key = "short"
		assert.Error(t, c.Validate())

		c.JWT.Key = "0123456789abcdef0123456789abcdef"
		assert.NoError(t, c.Validate())
	})
}
