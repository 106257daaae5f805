// Package weather expone la consulta de clima con cache read-through.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/skycast-dev/skycast/internal/cache"
	"github.com/skycast-dev/skycast/internal/metrics"
	"github.com/skycast-dev/skycast/internal/observability/logger"
	upstream "github.com/skycast-dev/skycast/internal/weather"
)

var (
	ErrMissingCity  = fmt.Errorf("missing city")
	ErrCityNotFound = fmt.Errorf("city not found")
	ErrUpstreamDown = fmt.Errorf("weather upstream unavailable")
)

// Fetcher es lo que el servicio necesita del cliente upstream. El tipo
// concreto es *weather.Client; los tests inyectan un fake.
type Fetcher interface {
	Current(ctx context.Context, city string) (*upstream.Observation, error)
}

// Service resuelve clima por ciudad: cache primero, upstream después. Las
// consultas concurrentes por la misma ciudad colapsan en un solo request
// al upstream.
type Service struct {
	fetcher Fetcher
	cache   cache.Client
	ttl     time.Duration
	group   singleflight.Group
}

func NewService(fetcher Fetcher, c cache.Client, ttl time.Duration) *Service {
	return &Service{fetcher: fetcher, cache: c, ttl: ttl}
}

// Current devuelve la observación para city. city se normaliza a minúsculas
// solo para la key de cache; al upstream viaja tal cual (maneja acentos y
// espacios mejor que nosotros).
func (s *Service) Current(ctx context.Context, city string) (*upstream.Observation, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("weather"),
		logger.City(city),
	)

	city = strings.TrimSpace(city)
	if city == "" {
		return nil, ErrMissingCity
	}

	key := "weather:" + strings.ToLower(city)

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key); err == nil {
			var obs upstream.Observation
			if json.Unmarshal([]byte(raw), &obs) == nil {
				metrics.WeatherUpstreamRequests.WithLabelValues("cache_hit").Inc()
				return &obs, nil
			}
			// Entrada corrupta: se descarta y se va al upstream.
			_ = s.cache.Delete(ctx, key)
		} else if !cache.IsNotFound(err) {
			log.Warn("cache read failed", logger.Err(err))
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.fetchAndStore(ctx, key, city)
	})
	if err != nil {
		return nil, err
	}
	return v.(*upstream.Observation), nil
}

func (s *Service) fetchAndStore(ctx context.Context, key, city string) (*upstream.Observation, error) {
	log := logger.From(ctx).With(logger.Component("weather"), logger.City(city))

	obs, err := s.fetcher.Current(ctx, city)
	if err != nil {
		if errors.Is(err, upstream.ErrCityNotFound) {
			metrics.WeatherUpstreamRequests.WithLabelValues("not_found").Inc()
			return nil, ErrCityNotFound
		}
		metrics.WeatherUpstreamRequests.WithLabelValues("error").Inc()
		log.Error("upstream fetch failed", logger.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrUpstreamDown, err)
	}
	metrics.WeatherUpstreamRequests.WithLabelValues("ok").Inc()

	if s.cache != nil {
		if raw, err := json.Marshal(obs); err == nil {
			if err := s.cache.Set(ctx, key, string(raw), s.ttl); err != nil {
				log.Warn("cache write failed", logger.Err(err))
			}
		}
	}
	return obs, nil
}
