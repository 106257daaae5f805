// Package config carga la configuración YAML de ambos servicios.
//
// Orden de resolución: YAML (con ${ENV} expandido) → overrides por env →
// defaults → Validate. Los secretos (JWT key, DSN, API keys) vienen siempre
// por env en prod; el YAML solo los referencia.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env      string `yaml:"env"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`

	AuthServer struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	} `yaml:"auth_server"`

	WeatherServer struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	} `yaml:"weather_server"`

	Storage struct {
		// memory | postgres
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"storage"`

	Cache struct {
		// memory | redis
		Driver string `yaml:"driver"`
		Redis  struct {
			Addr string `yaml:"addr"`
			DB   int    `yaml:"db"`
		} `yaml:"redis"`
		Prefix string `yaml:"prefix"`
	} `yaml:"cache"`

	JWT struct {
		Key           string `yaml:"key"`
		Issuer        string `yaml:"issuer"`
		Audience      string `yaml:"audience"`
		ExpireMinutes int    `yaml:"expire_minutes"`
	} `yaml:"jwt"`

	Google struct {
		ClientID string `yaml:"client_id"`
	} `yaml:"google"`

	Weather struct {
		Endpoint string `yaml:"endpoint"`
		APIKey   string `yaml:"api_key"`
		CacheTTL string `yaml:"cache_ttl"`
	} `yaml:"weather"`

	Rate struct {
		Enabled     bool   `yaml:"enabled"`
		MaxRequests int    `yaml:"max_requests"`
		Window      string `yaml:"window"`
	} `yaml:"rate"`
}

// Load lee el YAML en path. Path vacío usa SKYCAST_CONFIG o "config.yaml";
// si el archivo no existe se parte de zero-config (todo por env/defaults).
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("SKYCAST_CONFIG")
	}
	if path == "" {
		path = "config.yaml"
	}

	var c Config
	if raw, err := os.ReadFile(path); err == nil {
		expanded := os.Expand(string(raw), func(key string) string {
			return os.Getenv(key)
		})
		if err := yaml.Unmarshal([]byte(expanded), &c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	c.applyEnvOverrides()
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = v
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.App.LogLevel = v
	}
	if v, ok := getEnvStr("AUTH_SERVER_ADDR"); ok {
		c.AuthServer.Addr = v
	}
	if v, ok := getEnvStr("WEATHER_SERVER_ADDR"); ok {
		c.WeatherServer.Addr = v
	}
	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = v
	}
	if v, ok := getEnvStr("DATABASE_DSN"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Driver = "redis"
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvStr("JWT_KEY"); ok {
		c.JWT.Key = v
	}
	if v, ok := getEnvStr("JWT_ISSUER"); ok {
		c.JWT.Issuer = v
	}
	if v, ok := getEnvStr("JWT_AUDIENCE"); ok {
		c.JWT.Audience = v
	}
	if v, ok := getEnvInt("JWT_EXPIRE_MINUTES"); ok {
		c.JWT.ExpireMinutes = v
	}
	if v, ok := getEnvStr("GOOGLE_CLIENT_ID"); ok {
		c.Google.ClientID = v
	}
	if v, ok := getEnvStr("WEATHER_API_KEY"); ok {
		c.Weather.APIKey = v
	}
	if v, ok := getEnvStr("WEATHER_API_ENDPOINT"); ok {
		c.Weather.Endpoint = v
	}
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.AuthServer.Addr == "" {
		c.AuthServer.Addr = ":8080"
	}
	if c.WeatherServer.Addr == "" {
		c.WeatherServer.Addr = ":8081"
	}
	if len(c.AuthServer.CORSAllowedOrigins) == 0 {
		c.AuthServer.CORSAllowedOrigins = []string{"http://localhost:4200"}
	}
	if len(c.WeatherServer.CORSAllowedOrigins) == 0 {
		c.WeatherServer.CORSAllowedOrigins = c.AuthServer.CORSAllowedOrigins
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Cache.Prefix == "" {
		c.Cache.Prefix = "skycast:"
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "skycast-auth"
	}
	if c.JWT.Audience == "" {
		c.JWT.Audience = "skycast-clients"
	}
	if c.JWT.ExpireMinutes == 0 {
		c.JWT.ExpireMinutes = 60
	}
	if c.Weather.Endpoint == "" {
		c.Weather.Endpoint = "https://api.weatherapi.com/v1/current.json"
	}
	if c.Weather.CacheTTL == "" {
		c.Weather.CacheTTL = "5m"
	}
	if c.Rate.MaxRequests == 0 {
		c.Rate.MaxRequests = 30
	}
	if c.Rate.Window == "" {
		c.Rate.Window = "1m"
	}
}

// Validate chequea coherencia. Claves obligatorias solo en prod: en dev un
// JWT key vacío se autogenera en el wiring (con warning).
func (c *Config) Validate() error {
	if c.Storage.Driver != "memory" && c.Storage.Driver != "postgres" {
		return fmt.Errorf("config: unknown storage.driver %q", c.Storage.Driver)
	}
	if c.Storage.Driver == "postgres" && strings.TrimSpace(c.Storage.DSN) == "" {
		return fmt.Errorf("config: storage.driver postgres requires storage.dsn (or DATABASE_DSN)")
	}
	if c.Cache.Driver == "redis" && strings.TrimSpace(c.Cache.Redis.Addr) == "" {
		return fmt.Errorf("config: cache.driver redis requires cache.redis.addr (or REDIS_ADDR)")
	}
	if _, err := time.ParseDuration(c.Weather.CacheTTL); err != nil {
		return fmt.Errorf("config: weather.cache_ttl: %w", err)
	}
	if _, err := time.ParseDuration(c.Rate.Window); err != nil {
		return fmt.Errorf("config: rate.window: %w", err)
	}
	if strings.EqualFold(c.App.Env, "prod") {
		if strings.TrimSpace(c.JWT.Key) == "" {
			return fmt.Errorf("config: jwt.key (or JWT_KEY) is required in prod")
		}
		if len(c.JWT.Key) < 32 {
			return fmt.Errorf("config: jwt.key must be at least 32 bytes")
		}
	}
	return nil
}

// AccessTTL devuelve la vida del token como Duration.
func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.JWT.ExpireMinutes) * time.Minute
}

// WeatherCacheTTL devuelve el TTL de cache de clima ya parseado (Validate
// garantiza que parsea).
func (c *Config) WeatherCacheTTL() time.Duration {
	d, _ := time.ParseDuration(c.Weather.CacheTTL)
	return d
}

// RateWindow idem para la ventana de rate limiting.
func (c *Config) RateWindow() time.Duration {
	d, _ := time.ParseDuration(c.Rate.Window)
	return d
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}
