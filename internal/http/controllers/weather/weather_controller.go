// Package weather contiene el controller de consulta de clima.
package weather

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	httperrors "github.com/skycast-dev/skycast/internal/http/errors"
	svc "github.com/skycast-dev/skycast/internal/http/services/weather"
	"github.com/skycast-dev/skycast/internal/observability/logger"
)

// Controller handles GET /api/weather/{city}.
type Controller struct {
	service *svc.Service
}

func NewController(service *svc.Service) *Controller {
	return &Controller{service: service}
}

// Current devuelve el clima actual de la ciudad del path.
func (c *Controller) Current(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	city := chi.URLParam(r, "city")

	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("WeatherController.Current"),
		logger.City(city),
	)

	obs, err := c.service.Current(ctx, city)
	if err != nil {
		c.handleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(obs)

	log.Debug("weather served")
}

func (c *Controller) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrMissingCity):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("city is required"))
	case errors.Is(err, svc.ErrCityNotFound):
		httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail("city not found"))
	case errors.Is(err, svc.ErrUpstreamDown):
		httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithDetail("weather provider unavailable"))
	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
