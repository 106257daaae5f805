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

// LoginController handles POST /api/auth/login.
type LoginController struct {
	service svc.LoginService
}

// NewLoginController creates a new login controller.
func NewLoginController(service svc.LoginService) *LoginController {
	return &LoginController{service: service}
}

// Login handles password authentication.
func (c *LoginController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LoginController.Login"))

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req dto.LoginRequest
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

	result, err := c.service.LoginPassword(ctx, req)
	if err != nil {
		c.handleError(w, err)
		return
	}

	writeToken(w, result)
	log.Info("login ok", logger.Username(result.Username))
}

func (c *LoginController) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("username and password are required"))
	case errors.Is(err, svc.ErrInvalidCredentials):
		httperrors.WriteError(w, httperrors.ErrInvalidCredentials)
	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
