// Package password provee hash y verificación de credenciales.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost fijo para todo hash nuevo. Los hashes viejos conservan el suyo
// (bcrypt lo embebe en el string).
const Cost = 12

// Hash devuelve un hash bcrypt auto-descriptivo ($2a$cost$salt+dk).
func Hash(plain string) (string, error) {
	if plain == "" {
		return "", fmt.Errorf("empty password")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify compara en tiempo constante. Un hash malformado o vacío da false.
func Verify(plain, hash string) bool {
	if plain == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
