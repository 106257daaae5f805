// Package app arma el wiring de los dos servicios: resuelve drivers desde la
// config y conecta stores, cache, limiter, servicios, controllers y routers.
package app

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/http"

	rdb "github.com/redis/go-redis/v9"

	"github.com/skycast-dev/skycast/internal/cache"
	"github.com/skycast-dev/skycast/internal/config"
	authctrl "github.com/skycast-dev/skycast/internal/http/controllers/auth"
	healthctrl "github.com/skycast-dev/skycast/internal/http/controllers/health"
	weatherctrl "github.com/skycast-dev/skycast/internal/http/controllers/weather"
	"github.com/skycast-dev/skycast/internal/http/router"
	authsvc "github.com/skycast-dev/skycast/internal/http/services/auth"
	weathersvc "github.com/skycast-dev/skycast/internal/http/services/weather"
	jwtx "github.com/skycast-dev/skycast/internal/jwt"
	"github.com/skycast-dev/skycast/internal/metrics"
	"github.com/skycast-dev/skycast/internal/oauth/google"
	"github.com/skycast-dev/skycast/internal/observability/logger"
	"github.com/skycast-dev/skycast/internal/rate"
	"github.com/skycast-dev/skycast/internal/store/core"
	"github.com/skycast-dev/skycast/internal/store/memory"
	"github.com/skycast-dev/skycast/internal/store/pg"
	"github.com/skycast-dev/skycast/internal/weather"
)

// Cleanup cierra los recursos abiertos por el wiring. Siempre es seguro
// llamarla, incluso si el build falló a mitad de camino.
type Cleanup func()

// BuildAuthHandler arma el handler completo del auth service.
func BuildAuthHandler(ctx context.Context, cfg *config.Config) (http.Handler, Cleanup, error) {
	cleanup := func() {}

	if err := metrics.RegisterHTTP(nil); err != nil {
		return nil, cleanup, err
	}

	users, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, cleanup, err
	}
	cleanup = closeStore

	issuer := jwtx.NewIssuer(signingKey(cfg), cfg.JWT.Issuer, cfg.JWT.Audience, cfg.AccessTTL())
	verifier := google.New(cfg.Google.ClientID)

	ctrls := authctrl.NewControllers(authctrl.Services{
		Register: authsvc.NewRegisterService(authsvc.RegisterDeps{Users: users, Issuer: issuer}),
		Login:    authsvc.NewLoginService(authsvc.LoginDeps{Users: users, Issuer: issuer}),
		Google:   authsvc.NewGoogleService(authsvc.GoogleDeps{Users: users, Verifier: verifier, Issuer: issuer}),
	})

	h := router.NewAuthRouter(router.AuthRouterDeps{
		Controllers:    ctrls,
		Health:         healthctrl.NewController("authsvc", healthctrl.Check{Name: "store", Ping: users.Ping}),
		RateLimiter:    buildLimiter(cfg),
		AllowedOrigins: cfg.AuthServer.CORSAllowedOrigins,
	})
	return h, cleanup, nil
}

// BuildWeatherHandler arma el handler completo del weather service.
func BuildWeatherHandler(_ context.Context, cfg *config.Config) (http.Handler, Cleanup, error) {
	cleanup := func() {}

	if cfg.Weather.APIKey == "" {
		return nil, cleanup, fmt.Errorf("app: weather api key not configured (WEATHER_API_KEY)")
	}

	if err := metrics.RegisterHTTP(nil); err != nil {
		return nil, cleanup, err
	}

	c, err := cache.New(cache.Config{
		Driver: cfg.Cache.Driver,
		Addr:   cfg.Cache.Redis.Addr,
		DB:     cfg.Cache.Redis.DB,
		Prefix: cfg.Cache.Prefix,
	})
	if err != nil {
		return nil, cleanup, err
	}
	cleanup = func() { _ = c.Close() }

	client := weather.NewClient(cfg.Weather.Endpoint, cfg.Weather.APIKey)
	svc := weathersvc.NewService(client, c, cfg.WeatherCacheTTL())

	h := router.NewWeatherRouter(router.WeatherRouterDeps{
		Controller:     weatherctrl.NewController(svc),
		Health:         healthctrl.NewController("weathersvc", healthctrl.Check{Name: "cache", Ping: c.Ping}),
		Verifier:       jwtx.NewVerifier(signingKey(cfg), cfg.JWT.Issuer, cfg.JWT.Audience),
		RateLimiter:    buildLimiter(cfg),
		AllowedOrigins: cfg.WeatherServer.CORSAllowedOrigins,
	})
	return h, cleanup, nil
}

func openStore(ctx context.Context, cfg *config.Config) (core.UserRepository, Cleanup, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		s, err := pg.Open(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, func() {}, fmt.Errorf("app: open postgres: %w", err)
		}
		return s, s.Close, nil
	default:
		logger.L().Warn("using in-memory user store, data will not survive restarts")
		return memory.New(), func() {}, nil
	}
}

func buildLimiter(cfg *config.Config) rate.Limiter {
	if !cfg.Rate.Enabled {
		return nil
	}
	if cfg.Cache.Driver == "redis" {
		client := rdb.NewClient(&rdb.Options{Addr: cfg.Cache.Redis.Addr, DB: cfg.Cache.Redis.DB})
		return rate.NewRedisLimiter(client, cfg.Cache.Prefix+"rl:", cfg.Rate.MaxRequests, cfg.RateWindow())
	}
	return rate.NewMemoryLimiter(cfg.Rate.MaxRequests, cfg.RateWindow())
}

// signingKey devuelve la clave HS256. En dev, si no hay clave configurada,
// se genera una efímera: los tokens mueren con el proceso, suficiente para
// probar en local. Validate ya garantizó que en prod la clave existe.
func signingKey(cfg *config.Config) []byte {
	if cfg.JWT.Key != "" {
		return []byte(cfg.JWT.Key)
	}
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	logger.L().Warn("JWT_KEY not set, generated an ephemeral signing key",
		logger.String("hint", "tokens will not survive restarts nor be shared across services"))
	return b
}
