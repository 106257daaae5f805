// Package health contiene los endpoints de liveness y readiness.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/skycast-dev/skycast/internal/observability/logger"
)

// Check es una dependencia con nombre que el readyz sondea.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// Controller handles GET /healthz and GET /readyz.
type Controller struct {
	service string
	checks  []Check
}

func NewController(service string, checks ...Check) *Controller {
	return &Controller{service: service, checks: checks}
}

// Healthz es liveness puro: si el proceso responde, está vivo.
func (c *Controller) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": c.service,
	})
}

// Readyz sondea cada dependencia con timeout corto. Una sola falla marca el
// servicio como no listo (503) para que el balanceador lo saque de rotación.
func (c *Controller) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]string, len(c.checks))

	for _, chk := range c.checks {
		if err := chk.Ping(ctx); err != nil {
			logger.From(r.Context()).Warn("readiness check failed",
				logger.String("check", chk.Name), logger.Err(err))
			deps[chk.Name] = "down"
			status = http.StatusServiceUnavailable
		} else {
			deps[chk.Name] = "ok"
		}
	}

	body := map[string]any{
		"service": c.service,
		"checks":  deps,
	}
	if status == http.StatusOK {
		body["status"] = "ready"
	} else {
		body["status"] = "degraded"
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
