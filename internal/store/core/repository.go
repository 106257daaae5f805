// Package core define el contrato del directorio de usuarios.
//
// Los adapters (pg, memory) implementan UserRepository. Las búsquedas
// devuelven ErrNotFound cuando no hay registro; TryCreate devuelve
// ErrConflict cuando alguna restricción de unicidad se viola. Cualquier otro
// error es una falla de storage y se propaga tal cual al caller (sin retry).
package core

import (
	"context"

	"github.com/skycast-dev/skycast/internal/domain"
)

type UserRepository interface {
	Ping(ctx context.Context) error

	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByExternalID(ctx context.Context, provider, externalID string) (*domain.User, error)

	// TryCreate inserta el usuario de forma atómica respecto a los checks de
	// unicidad (username, email, (provider, external_id)). Los pre-checks de
	// los flujos son advisory; la restricción del store es la autoridad final
	// ante una carrera entre "not found" y "create".
	TryCreate(ctx context.Context, u *domain.User) error
}
