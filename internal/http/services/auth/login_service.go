package auth

import (
	"context"
	"errors"
	"strings"

	dto "github.com/skycast-dev/skycast/internal/http/dto/auth"
	jwtx "github.com/skycast-dev/skycast/internal/jwt"
	"github.com/skycast-dev/skycast/internal/observability/logger"
	"github.com/skycast-dev/skycast/internal/security/password"
	"github.com/skycast-dev/skycast/internal/store/core"
)

// LoginDeps contiene las dependencias del login service.
type LoginDeps struct {
	Users  core.UserRepository
	Issuer *jwtx.Issuer
}

type loginService struct {
	deps LoginDeps
}

// NewLoginService crea el servicio de login local.
func NewLoginService(deps LoginDeps) LoginService {
	return &loginService{deps: deps}
}

func (s *loginService) LoginPassword(ctx context.Context, in dto.LoginRequest) (*dto.AuthResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.login"),
		logger.Op("LoginPassword"),
	)

	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	log = log.With(logger.Username(in.Username))

	// Usuario inexistente y password incorrecto devuelven el MISMO error:
	// la respuesta no debe revelar qué usernames existen.
	u, err := s.deps.Users.FindByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			log.Debug("user not found")
			return nil, ErrInvalidCredentials
		}
		log.Error("user lookup failed", logger.Err(err))
		return nil, err
	}

	if !password.Verify(in.Password, u.PasswordHash) {
		log.Debug("password check failed")
		return nil, ErrInvalidCredentials
	}

	token, _, err := s.deps.Issuer.Issue(u)
	if err != nil {
		log.Error("token issue failed", logger.Err(err))
		return nil, ErrTokenIssueFailed
	}

	log.Info("login ok", logger.UserID(u.ID))
	return &dto.AuthResult{Token: token, Username: u.Username, Email: u.Email}, nil
}
