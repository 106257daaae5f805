package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skycast-dev/skycast/internal/domain"
	dto "github.com/skycast-dev/skycast/internal/http/dto/auth"
	jwtx "github.com/skycast-dev/skycast/internal/jwt"
	"github.com/skycast-dev/skycast/internal/observability/logger"
	"github.com/skycast-dev/skycast/internal/security/password"
	"github.com/skycast-dev/skycast/internal/store/core"
	"github.com/skycast-dev/skycast/internal/util"
	"github.com/skycast-dev/skycast/internal/validation"
)

// RegisterDeps contiene las dependencias del register service.
type RegisterDeps struct {
	Users  core.UserRepository
	Issuer *jwtx.Issuer
}

type registerService struct {
	deps RegisterDeps
}

// NewRegisterService crea el servicio de alta de cuentas locales.
func NewRegisterService(deps RegisterDeps) RegisterService {
	return &registerService{deps: deps}
}

func (s *registerService) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.register"),
		logger.Op("Register"),
	)

	// Normalización
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if in.Username == "" || in.Password == "" || in.Email == "" {
		return nil, ErrMissingFields
	}
	if !validation.ValidUsername(in.Username) {
		return nil, ErrInvalidUsername
	}
	if !validation.ValidEmail(in.Email) {
		return nil, ErrInvalidEmail
	}

	log = log.With(logger.Username(in.Username), logger.Email(util.MaskEmail(in.Email)))

	// Pre-checks advisory: dan un error específico en el caso común. La
	// autoridad final es TryCreate (constraint del store) ante una carrera.
	if _, err := s.deps.Users.FindByUsername(ctx, in.Username); err == nil {
		log.Debug("username taken")
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, core.ErrNotFound) {
		log.Error("username lookup failed", logger.Err(err))
		return nil, err
	}
	if _, err := s.deps.Users.FindByEmail(ctx, in.Email); err == nil {
		log.Debug("email taken")
		return nil, ErrEmailTaken
	} else if !errors.Is(err, core.ErrNotFound) {
		log.Error("email lookup failed", logger.Err(err))
		return nil, err
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		log.Error("password hash failed", logger.Err(err))
		return nil, err
	}

	u := &domain.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.deps.Users.TryCreate(ctx, u); err != nil {
		if errors.Is(err, core.ErrConflict) {
			// Carrera entre pre-check y create: alguien ganó el nombre o el
			// email. No sabemos cuál; username es el caso abrumador.
			log.Debug("create conflict")
			return nil, ErrUsernameTaken
		}
		log.Error("user create failed", logger.Err(err))
		return nil, err
	}

	token, _, err := s.deps.Issuer.Issue(u)
	if err != nil {
		log.Error("token issue failed", logger.Err(err))
		return nil, ErrTokenIssueFailed
	}

	log.Info("user registered", logger.UserID(u.ID))
	return &dto.AuthResult{Token: token, Username: u.Username, Email: u.Email}, nil
}
