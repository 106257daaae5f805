package middlewares

import (
	"net/http"
	"strings"

	httperrors "github.com/skycast-dev/skycast/internal/http/errors"
	"github.com/skycast-dev/skycast/internal/jwt"
	"github.com/skycast-dev/skycast/internal/observability/logger"
)

// RequireAuth exige un bearer token válido (firmado por el auth service con
// la misma clave/iss/aud). Los claims verificados quedan en el contexto.
func RequireAuth(verifier *jwt.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				httperrors.WriteError(w, httperrors.ErrUnauthorized)
				return
			}

			claims, err := verifier.Parse(raw)
			if err != nil {
				logger.From(r.Context()).Debug("bearer token rejected", logger.Err(err))
				httperrors.WriteError(w, httperrors.ErrTokenInvalid)
				return
			}

			ctx := setClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
