package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	healthctrl "github.com/skycast-dev/skycast/internal/http/controllers/health"
	weatherctrl "github.com/skycast-dev/skycast/internal/http/controllers/weather"
	mw "github.com/skycast-dev/skycast/internal/http/middlewares"
	jwtx "github.com/skycast-dev/skycast/internal/jwt"
	"github.com/skycast-dev/skycast/internal/rate"
)

// WeatherRouterDeps contiene las dependencias del router del weather service.
type WeatherRouterDeps struct {
	Controller     *weatherctrl.Controller
	Health         *healthctrl.Controller
	Verifier       *jwtx.Verifier
	RateLimiter    rate.Limiter // opcional
	AllowedOrigins []string
}

// NewWeatherRouter arma el router del weather service. Toda la API de clima
// va detrás de RequireAuth; los endpoints operativos quedan abiertos.
func NewWeatherRouter(deps WeatherRouterDeps) http.Handler {
	r := chi.NewRouter()
	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	current := mw.Chain(http.HandlerFunc(deps.Controller.Current),
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithLogging(),
		mw.WithMetrics("weathersvc", "current"),
		mw.WithCORS(deps.AllowedOrigins),
		mw.WithRateLimit(deps.RateLimiter),
		mw.RequireAuth(deps.Verifier),
	)
	r.Method(http.MethodGet, "/api/weather/{city}", current)

	r.Method(http.MethodOptions, "/api/weather/*", mw.Chain(http.HandlerFunc(ok204), mw.WithCORS(deps.AllowedOrigins)))

	mountOps(r, deps.Health)
	return r
}
