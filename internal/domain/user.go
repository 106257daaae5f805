// Package domain contiene las entidades centrales de SkyCast.
package domain

import "time"

// User es el registro de identidad. Se crea una sola vez (registro local o
// primer login federado) y nunca se actualiza ni se borra desde los flujos
// de auth.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string

	// ExternalProvider y ExternalID van siempre juntos: ambos vacíos para
	// cuentas locales, ambos presentes para cuentas federadas.
	ExternalProvider string
	ExternalID       string

	CreatedAt time.Time
}

// IsFederated reporta si la cuenta fue creada por un proveedor externo.
func (u *User) IsFederated() bool {
	return u.ExternalProvider != "" && u.ExternalID != ""
}
