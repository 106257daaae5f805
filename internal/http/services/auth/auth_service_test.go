package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycast-dev/skycast/internal/domain"
	dto "github.com/skycast-dev/skycast/internal/http/dto/auth"
	jwtx "github.com/skycast-dev/skycast/internal/jwt"
	"github.com/skycast-dev/skycast/internal/oauth/google"
	"github.com/skycast-dev/skycast/internal/store/memory"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func newIssuer() *jwtx.Issuer {
	return jwtx.NewIssuer(testKey, "skycast-auth", "skycast-clients", time.Hour)
}

// fakeVerifier devuelve claims fijos o un error.
type fakeVerifier struct {
	claims *google.IDClaims
	err    error
}

func (f *fakeVerifier) VerifyIDToken(_ context.Context, _ string) (*google.IDClaims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

// failingRepo simula un directorio caído.
type failingRepo struct {
	err error
}

func (f failingRepo) Ping(context.Context) error { return f.err }
func (f failingRepo) FindByUsername(context.Context, string) (*domain.User, error) {
	return nil, f.err
}
func (f failingRepo) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, f.err
}
func (f failingRepo) FindByExternalID(context.Context, string, string) (*domain.User, error) {
	return nil, f.err
}
func (f failingRepo) TryCreate(context.Context, *domain.User) error { return f.err }

// ─── Register ───

func TestRegisterHappyPath(t *testing.T) {
	users := memory.New()
	svc := NewRegisterService(RegisterDeps{Users: users, Issuer: newIssuer()})

	res, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: "maria",
		Password: "s3cret-pass",
		Email:    "Maria@Example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "maria", res.Username)
	assert.Equal(t, "maria@example.com", res.Email, "email se normaliza a minúsculas")
	assert.NotEmpty(t, res.Token)

	// El token emitido debe ser verificable con la misma clave.
	v := &jwtx.Verifier{Key: testKey, Iss: "skycast-auth", Aud: "skycast-clients"}
	claims, err := v.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "maria", claims.Subject)
}

func TestRegisterValidation(t *testing.T) {
	svc := NewRegisterService(RegisterDeps{Users: memory.New(), Issuer: newIssuer()})
	ctx := context.Background()

	cases := []struct {
		name string
		in   dto.RegisterRequest
		want error
	}{
		{"sin username", dto.RegisterRequest{Password: "x", Email: "a@b.co"}, ErrMissingFields},
		{"sin password", dto.RegisterRequest{Username: "a", Email: "a@b.co"}, ErrMissingFields},
		{"sin email", dto.RegisterRequest{Username: "a", Password: "x"}, ErrMissingFields},
		{"username con espacios internos", dto.RegisterRequest{Username: "a b", Password: "x", Email: "a@b.co"}, ErrInvalidUsername},
		{"email sin arroba", dto.RegisterRequest{Username: "ab", Password: "x", Email: "nope"}, ErrInvalidEmail},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRegisterConflicts(t *testing.T) {
	users := memory.New()
	svc := NewRegisterService(RegisterDeps{Users: users, Issuer: newIssuer()})
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterRequest{Username: "maria", Password: "pw1", Email: "maria@example.com"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, dto.RegisterRequest{Username: "maria", Password: "pw2", Email: "otra@example.com"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Register(ctx, dto.RegisterRequest{Username: "maria2", Password: "pw2", Email: "maria@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	assert.Equal(t, 1, users.Len())
}

// ─── Login ───

func TestLoginPassword(t *testing.T) {
	users := memory.New()
	reg := NewRegisterService(RegisterDeps{Users: users, Issuer: newIssuer()})
	svc := NewLoginService(LoginDeps{Users: users, Issuer: newIssuer()})
	ctx := context.Background()

	_, err := reg.Register(ctx, dto.RegisterRequest{Username: "maria", Password: "s3cret-pass", Email: "maria@example.com"})
	require.NoError(t, err)

	t.Run("ok", func(t *testing.T) {
		res, err := svc.LoginPassword(ctx, dto.LoginRequest{Username: "maria", Password: "s3cret-pass"})
		require.NoError(t, err)
		assert.Equal(t, "maria", res.Username)
		assert.Equal(t, "maria@example.com", res.Email)
		assert.NotEmpty(t, res.Token)
	})

	t.Run("password incorrecto y usuario inexistente dan el mismo error", func(t *testing.T) {
		_, errBadPass := svc.LoginPassword(ctx, dto.LoginRequest{Username: "maria", Password: "wrong"})
		_, errNoUser := svc.LoginPassword(ctx, dto.LoginRequest{Username: "ghost", Password: "wrong"})
		assert.ErrorIs(t, errBadPass, ErrInvalidCredentials)
		assert.ErrorIs(t, errNoUser, ErrInvalidCredentials)
	})

	t.Run("campos vacios", func(t *testing.T) {
		_, err := svc.LoginPassword(ctx, dto.LoginRequest{Username: "maria"})
		assert.ErrorIs(t, err, ErrMissingFields)
	})
}

// ─── Google ───

func TestLoginGoogleCreatesAccount(t *testing.T) {
	users := memory.New()
	fv := &fakeVerifier{claims: &google.IDClaims{Sub: "g-sub-1", Email: "Maria@Gmail.com", EmailVerified: true}}
	svc := NewGoogleService(GoogleDeps{Users: users, Verifier: fv, Issuer: newIssuer()})
	ctx := context.Background()

	res, err := svc.LoginGoogle(ctx, dto.GoogleLoginRequest{IDToken: "raw-token"})
	require.NoError(t, err)

	assert.Equal(t, "maria_google", res.Username, "username derivado del local-part del email")
	assert.Equal(t, "maria@gmail.com", res.Email)
	assert.NotEmpty(t, res.Token)

	u, err := users.FindByExternalID(ctx, ProviderGoogle, "g-sub-1")
	require.NoError(t, err)
	assert.True(t, u.IsFederated())
	assert.NotEmpty(t, u.PasswordHash, "las cuentas federadas llevan hash descartable")
}

func TestLoginGoogleIsIdempotent(t *testing.T) {
	users := memory.New()
	fv := &fakeVerifier{claims: &google.IDClaims{Sub: "g-sub-1", Email: "maria@gmail.com"}}
	svc := NewGoogleService(GoogleDeps{Users: users, Verifier: fv, Issuer: newIssuer()})
	ctx := context.Background()

	first, err := svc.LoginGoogle(ctx, dto.GoogleLoginRequest{IDToken: "raw"})
	require.NoError(t, err)
	second, err := svc.LoginGoogle(ctx, dto.GoogleLoginRequest{IDToken: "raw"})
	require.NoError(t, err)

	assert.Equal(t, first.Username, second.Username)
	assert.Equal(t, 1, users.Len(), "el segundo login reutiliza la cuenta")
}

func TestLoginGoogleInvalidToken(t *testing.T) {
	fv := &fakeVerifier{err: google.ErrInvalidIDToken}
	svc := NewGoogleService(GoogleDeps{Users: memory.New(), Verifier: fv, Issuer: newIssuer()})

	_, err := svc.LoginGoogle(context.Background(), dto.GoogleLoginRequest{IDToken: "bad"})
	assert.ErrorIs(t, err, ErrInvalidGoogleToken)
}

func TestLoginGoogleEmptyToken(t *testing.T) {
	svc := NewGoogleService(GoogleDeps{Users: memory.New(), Verifier: &fakeVerifier{}, Issuer: newIssuer()})
	_, err := svc.LoginGoogle(context.Background(), dto.GoogleLoginRequest{IDToken: "   "})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestLoginGoogleEmailOwnedByLocalAccount(t *testing.T) {
	users := memory.New()
	reg := NewRegisterService(RegisterDeps{Users: users, Issuer: newIssuer()})
	ctx := context.Background()

	_, err := reg.Register(ctx, dto.RegisterRequest{Username: "maria", Password: "pw", Email: "maria@gmail.com"})
	require.NoError(t, err)

	fv := &fakeVerifier{claims: &google.IDClaims{Sub: "g-sub-1", Email: "maria@gmail.com"}}
	svc := NewGoogleService(GoogleDeps{Users: users, Verifier: fv, Issuer: newIssuer()})

	_, err = svc.LoginGoogle(ctx, dto.GoogleLoginRequest{IDToken: "raw"})
	assert.ErrorIs(t, err, ErrEmailOwnedByLocal)
	assert.Equal(t, 1, users.Len())
}

func TestLoginGoogleDisambiguatesUsername(t *testing.T) {
	users := memory.New()
	reg := NewRegisterService(RegisterDeps{Users: users, Issuer: newIssuer()})
	ctx := context.Background()

	// Una cuenta local ya ocupa el username derivado.
	_, err := reg.Register(ctx, dto.RegisterRequest{Username: "maria_google", Password: "pw", Email: "otra@example.com"})
	require.NoError(t, err)

	fv := &fakeVerifier{claims: &google.IDClaims{Sub: "g-sub-2", Email: "maria@gmail.com"}}
	svc := NewGoogleService(GoogleDeps{Users: users, Verifier: fv, Issuer: newIssuer()})

	res, err := svc.LoginGoogle(ctx, dto.GoogleLoginRequest{IDToken: "raw"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.Username, "maria_google_"), "got %q", res.Username)
	assert.Len(t, res.Username, len("maria_google_")+6, "sufijo de 6 hex")
	assert.Equal(t, 2, users.Len())
}

func TestLoginGoogleStorageFailurePropagates(t *testing.T) {
	boom := errors.New("storage down")
	svc := NewGoogleService(GoogleDeps{
		Users:    failingRepo{err: boom},
		Verifier: &fakeVerifier{claims: &google.IDClaims{Sub: "s", Email: "a@b.co"}},
		Issuer:   newIssuer(),
	})

	_, err := svc.LoginGoogle(context.Background(), dto.GoogleLoginRequest{IDToken: "raw"})
	assert.ErrorIs(t, err, boom)
}
