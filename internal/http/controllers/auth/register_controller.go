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

// RegisterController handles POST /api/auth/register.
type RegisterController struct {
	service svc.RegisterService
}

// NewRegisterController creates a new register controller.
func NewRegisterController(service svc.RegisterService) *RegisterController {
	return &RegisterController{service: service}
}

// Register handles user registration.
func (c *RegisterController) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("RegisterController.Register"))

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req dto.RegisterRequest
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

	result, err := c.service.Register(ctx, req)
	if err != nil {
		c.handleError(w, err)
		return
	}

	writeToken(w, result)
	log.Info("user registered", logger.Username(result.Username))
}

func (c *RegisterController) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("username, password and email are required"))
	case errors.Is(err, svc.ErrInvalidUsername):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("username format is invalid"))
	case errors.Is(err, svc.ErrInvalidEmail):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("email format is invalid"))
	case errors.Is(err, svc.ErrUsernameTaken):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("username already registered"))
	case errors.Is(err, svc.ErrEmailTaken):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("email already registered"))
	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}

// writeToken serializa el TokenResponse común a los tres flujos.
func writeToken(w http.ResponseWriter, result *dto.AuthResult) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(dto.TokenResponse{
		Token:    result.Token,
		Username: result.Username,
		Email:    result.Email,
	})
}
