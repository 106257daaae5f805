// Package jwt emite y parsea los bearer tokens de SkyCast.
package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/skycast-dev/skycast/internal/domain"
)

// Issuer firma tokens HS256 con la clave simétrica de configuración.
// Es write-only: la verificación vive en Parse / el middleware de auth.
type Issuer struct {
	Key       []byte
	Iss       string        // "iss"
	Aud       string        // "aud"
	AccessTTL time.Duration // exp = iat + AccessTTL
}

func NewIssuer(key []byte, iss, aud string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Issuer{Key: key, Iss: iss, Aud: aud, AccessTTL: ttl}
}

var ErrNoSigningKey = errors.New("jwt: signing key not configured")

// Issue emite un token para la identidad dada: sub = username, jti fresco
// (evita colisión byte a byte entre emisiones), iss/aud/iat/nbf/exp.
func (i *Issuer) Issue(u *domain.User) (string, time.Time, error) {
	if len(i.Key) == 0 {
		return "", time.Time{}, ErrNoSigningKey
	}

	now := time.Now().UTC()
	exp := now.Add(i.AccessTTL)

	claims := jwtv5.MapClaims{
		"iss": i.Iss,
		"sub": u.Username,
		"aud": i.Aud,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": exp.Unix(),
	}

	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	tk.Header["typ"] = "JWT"

	signed, err := tk.SignedString(i.Key)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}
