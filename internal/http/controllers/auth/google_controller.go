package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	dto "github.com/skycast-dev/skycast/internal/http/dto/auth"
	httperrors "github.com/skycast-dev/skycast/internal/http/errors"
	svc "github.com/skycast-dev/skycast/internal/http/services/auth"
	"github.com/skycast-dev/skycast/internal/observability/logger"
)

// GoogleController handles POST /api/auth/google.
type GoogleController struct {
	service svc.GoogleService
}

// NewGoogleController creates a new Google sign-in controller.
func NewGoogleController(service svc.GoogleService) *GoogleController {
	return &GoogleController{service: service}
}

// Login handles federated sign-in with a Google ID token.
func (c *GoogleController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("GoogleController.Login"))

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req dto.GoogleLoginRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	result, err := c.service.LoginGoogle(ctx, req)
	if err != nil {
		c.handleError(w, err)
		return
	}

	writeToken(w, result)
	log.Info("google login ok", logger.Username(result.Username))
}

func (c *GoogleController) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("idToken is required"))
	case errors.Is(err, svc.ErrInvalidGoogleToken):
		httperrors.WriteError(w, httperrors.ErrInvalidGoogleToken)
	case errors.Is(err, svc.ErrEmailOwnedByLocal):
		httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("email is already registered with a password account"))
	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
