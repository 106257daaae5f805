package middlewares

import (
	"net/http"
	"strconv"
	"time"

	"github.com/skycast-dev/skycast/internal/metrics"
)

// WithMetrics registra contadores y latencia por ruta. El nombre de ruta es
// estático (no el path crudo) para mantener baja la cardinalidad.
func WithMetrics(service, route string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			metrics.HTTPRequestsTotal.WithLabelValues(service, route, r.Method, strconv.Itoa(rec.status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(service, route).Observe(float64(time.Since(start).Milliseconds()))
		})
	}
}
