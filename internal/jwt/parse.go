package jwt

import (
	"errors"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// Claims son los claims verificados de un access token.
type Claims struct {
	Subject string
	TokenID string
	Issuer  string
}

var ErrInvalidToken = errors.New("jwt: invalid token")

// Verifier valida tokens emitidos por un Issuer con la misma clave/iss/aud.
// Lo usa el middleware de auth del weather service.
type Verifier struct {
	Key []byte
	Iss string
	Aud string
}

func NewVerifier(key []byte, iss, aud string) *Verifier {
	return &Verifier{Key: key, Iss: iss, Aud: aud}
}

// Parse valida firma, exp/nbf, iss y aud. Cualquier falla es ErrInvalidToken;
// el detalle queda envuelto para logs, nunca para el cliente.
func (v *Verifier) Parse(raw string) (*Claims, error) {
	tok, err := jwtv5.Parse(raw,
		func(t *jwtv5.Token) (any, error) { return v.Key, nil },
		jwtv5.WithValidMethods([]string{"HS256"}),
		jwtv5.WithIssuer(v.Iss),
		jwtv5.WithAudience(v.Aud),
		jwtv5.WithExpirationRequired(),
	)
	if err != nil || !tok.Valid {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	mc, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := mc["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}
	jti, _ := mc["jti"].(string)
	iss, _ := mc["iss"].(string)

	return &Claims{Subject: sub, TokenID: jti, Issuer: iss}, nil
}
