// Package auth contiene los servicios de registro y autenticación.
package auth

import (
	"context"
	"fmt"

	dto "github.com/skycast-dev/skycast/internal/http/dto/auth"
)

// RegisterService define el alta de cuentas locales.
type RegisterService interface {
	Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResult, error)
}

// LoginService define el login con credenciales locales.
type LoginService interface {
	LoginPassword(ctx context.Context, in dto.LoginRequest) (*dto.AuthResult, error)
}

// GoogleService define el sign-in federado con Google.
type GoogleService interface {
	LoginGoogle(ctx context.Context, in dto.GoogleLoginRequest) (*dto.AuthResult, error)
}

// Errores de los flujos de auth. Los controllers los mapean a status codes;
// los servicios nunca escriben HTTP.
var (
	ErrMissingFields      = fmt.Errorf("missing required fields")
	ErrInvalidUsername    = fmt.Errorf("invalid username")
	ErrInvalidEmail       = fmt.Errorf("invalid email")
	ErrUsernameTaken      = fmt.Errorf("username already registered")
	ErrEmailTaken         = fmt.Errorf("email already registered")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidGoogleToken = fmt.Errorf("invalid google id token")
	ErrEmailOwnedByLocal  = fmt.Errorf("email belongs to a local account")
	ErrTokenIssueFailed   = fmt.Errorf("failed to issue token")
)
