package middlewares

import (
	"net/http"

	httperrors "github.com/skycast-dev/skycast/internal/http/errors"
	"github.com/skycast-dev/skycast/internal/observability/logger"
	"go.uber.org/zap"
)

// WithRecover atrapa panics del handler y responde 500 sin tirar el proceso.
func WithRecover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.From(r.Context()).Error("panic recovered",
						zap.Any("panic", rec),
						logger.Path(r.URL.Path),
					)
					httperrors.WriteError(w, httperrors.ErrInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
