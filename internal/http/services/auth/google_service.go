package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skycast-dev/skycast/internal/domain"
	dto "github.com/skycast-dev/skycast/internal/http/dto/auth"
	jwtx "github.com/skycast-dev/skycast/internal/jwt"
	"github.com/skycast-dev/skycast/internal/oauth/google"
	"github.com/skycast-dev/skycast/internal/observability/logger"
	"github.com/skycast-dev/skycast/internal/security/password"
	"github.com/skycast-dev/skycast/internal/store/core"
	"github.com/skycast-dev/skycast/internal/util"
)

// ProviderGoogle es el valor de external_provider para cuentas Google.
const ProviderGoogle = "google"

// Intentos de desambiguación de username derivado antes de rendirse.
const maxUsernameAttempts = 5

// GoogleDeps contiene las dependencias del servicio de sign-in con Google.
type GoogleDeps struct {
	Users    core.UserRepository
	Verifier google.IDTokenVerifier
	Issuer   *jwtx.Issuer
}

type googleService struct {
	deps GoogleDeps
}

// NewGoogleService crea el servicio de login federado.
func NewGoogleService(deps GoogleDeps) GoogleService {
	return &googleService{deps: deps}
}

func (s *googleService) LoginGoogle(ctx context.Context, in dto.GoogleLoginRequest) (*dto.AuthResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.google"),
		logger.Op("LoginGoogle"),
		logger.Provider(ProviderGoogle),
	)

	raw := strings.TrimSpace(in.IDToken)
	if raw == "" {
		return nil, ErrMissingFields
	}

	claims, err := s.deps.Verifier.VerifyIDToken(ctx, raw)
	if err != nil {
		log.Debug("id token rejected", logger.Err(err))
		return nil, ErrInvalidGoogleToken
	}

	email := strings.TrimSpace(strings.ToLower(claims.Email))
	log = log.With(logger.Email(util.MaskEmail(email)))

	// Caso 1: cuenta federada ya existente para este sub.
	u, err := s.deps.Users.FindByExternalID(ctx, ProviderGoogle, claims.Sub)
	if err == nil {
		return s.issue(log, u)
	}
	if !errors.Is(err, core.ErrNotFound) {
		log.Error("external lookup failed", logger.Err(err))
		return nil, err
	}

	// Caso 2: el email ya pertenece a una cuenta local. No se enlaza
	// automáticamente: el dueño local tendría que probar su password.
	if existing, err := s.deps.Users.FindByEmail(ctx, email); err == nil {
		if !existing.IsFederated() {
			log.Info("email owned by local account")
			return nil, ErrEmailOwnedByLocal
		}
		// Federada con mismo email pero otro sub: Google recicló o cambió el
		// sub. Tratamos como cuenta nueva; el email quedará en conflicto y
		// el create lo reporta.
	} else if !errors.Is(err, core.ErrNotFound) {
		log.Error("email lookup failed", logger.Err(err))
		return nil, err
	}

	// Caso 3: primera vez. Crear la cuenta con username derivado del email.
	u, err = s.createFederated(ctx, log, claims, email)
	if err != nil {
		return nil, err
	}
	return s.issue(log, u)
}

func (s *googleService) issue(log *zap.Logger, u *domain.User) (*dto.AuthResult, error) {
	token, _, err := s.deps.Issuer.Issue(u)
	if err != nil {
		log.Error("token issue failed", logger.Err(err))
		return nil, ErrTokenIssueFailed
	}
	log.Info("google login ok", logger.UserID(u.ID))
	return &dto.AuthResult{Token: token, Username: u.Username, Email: u.Email}, nil
}

func (s *googleService) createFederated(ctx context.Context, log *zap.Logger, claims *google.IDClaims, email string) (*domain.User, error) {
	// Las cuentas federadas nunca hacen login por password, pero el hash no
	// puede quedar vacío: se genera un secreto descartable que nadie conoce.
	throwaway, err := randomSecret()
	if err != nil {
		return nil, err
	}
	hash, err := password.Hash(throwaway)
	if err != nil {
		return nil, err
	}

	base := usernameFromEmail(email)
	candidate := base

	for attempt := 0; attempt < maxUsernameAttempts; attempt++ {
		if attempt > 0 {
			suffix, err := randomHex(3)
			if err != nil {
				return nil, err
			}
			candidate = base + "_" + suffix
		}

		u := &domain.User{
			ID:               uuid.NewString(),
			Username:         candidate,
			Email:            email,
			PasswordHash:     hash,
			ExternalProvider: ProviderGoogle,
			ExternalID:       claims.Sub,
			CreatedAt:        time.Now().UTC(),
		}

		err := s.deps.Users.TryCreate(ctx, u)
		if err == nil {
			log.Info("federated account created", logger.UserID(u.ID), logger.Username(u.Username))
			return u, nil
		}
		if !errors.Is(err, core.ErrConflict) {
			log.Error("federated create failed", logger.Err(err))
			return nil, err
		}

		// Conflicto: si el email fue tomado durante la carrera, reintentar el
		// username no ayuda. Distinguimos mirando el directorio.
		if existing, ferr := s.deps.Users.FindByEmail(ctx, email); ferr == nil {
			if !existing.IsFederated() {
				return nil, ErrEmailOwnedByLocal
			}
			if existing.ExternalID == claims.Sub {
				// Otra instancia creó la cuenta en paralelo.
				return existing, nil
			}
		}
		log.Debug("derived username taken", logger.Username(candidate))
	}

	return nil, fmt.Errorf("could not derive a free username for %s", util.MaskEmail(email))
}

// usernameFromEmail deriva "maria_google" de "maria@gmail.com".
func usernameFromEmail(email string) string {
	local := email
	if i := strings.IndexByte(email, '@'); i > 0 {
		local = email[:i]
	}
	return local + "_" + ProviderGoogle
}

func randomSecret() (string, error) {
	return randomHex(32)
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
