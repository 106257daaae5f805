// Package router define las rutas HTTP de ambos servicios.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authctrl "github.com/skycast-dev/skycast/internal/http/controllers/auth"
	healthctrl "github.com/skycast-dev/skycast/internal/http/controllers/health"
	httperrors "github.com/skycast-dev/skycast/internal/http/errors"
	mw "github.com/skycast-dev/skycast/internal/http/middlewares"
	"github.com/skycast-dev/skycast/internal/rate"
)

// AuthRouterDeps contiene las dependencias del router del auth service.
type AuthRouterDeps struct {
	Controllers    *authctrl.Controllers
	Health         *healthctrl.Controller
	RateLimiter    rate.Limiter // opcional
	AllowedOrigins []string
}

// NewAuthRouter arma el router del auth service con su cadena de middlewares.
func NewAuthRouter(deps AuthRouterDeps) http.Handler {
	r := chi.NewRouter()
	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	c := deps.Controllers

	base := func(route string, h http.HandlerFunc) http.Handler {
		return mw.Chain(h,
			mw.WithRecover(),
			mw.WithRequestID(),
			mw.WithLogging(),
			mw.WithMetrics("authsvc", route),
			mw.WithCORS(deps.AllowedOrigins),
			mw.WithRateLimit(deps.RateLimiter),
		)
	}

	r.Method(http.MethodPost, "/api/auth/register", base("register", c.Register.Register))
	r.Method(http.MethodPost, "/api/auth/login", base("login", c.Login.Login))
	r.Method(http.MethodPost, "/api/auth/google", base("google", c.Google.Login))

	// Preflight CORS de la SPA.
	r.Method(http.MethodOptions, "/api/auth/*", mw.Chain(http.HandlerFunc(ok204), mw.WithCORS(deps.AllowedOrigins)))

	mountOps(r, deps.Health)
	return r
}

// mountOps registra los endpoints operativos comunes a ambos servicios.
func mountOps(r chi.Router, health *healthctrl.Controller) {
	r.Method(http.MethodGet, "/healthz", mw.Chain(http.HandlerFunc(health.Healthz), mw.WithRecover()))
	r.Method(http.MethodGet, "/readyz", mw.Chain(http.HandlerFunc(health.Readyz), mw.WithRecover(), mw.WithRequestID()))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

func ok204(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	httperrors.WriteError(w, httperrors.ErrNotFound)
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
}
