// Package memory implementa core.UserRepository en memoria.
//
// Se usa en desarrollo (storage.driver: memory) y en tests. TryCreate hace el
// check-and-insert bajo el mismo lock, igual que la constraint única del
// schema de Postgres.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/skycast-dev/skycast/internal/domain"
	"github.com/skycast-dev/skycast/internal/store/core"
)

type Store struct {
	mu    sync.RWMutex
	users map[string]*domain.User // keyed by ID
}

func New() *Store {
	return &Store{users: make(map[string]*domain.User)}
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return clone(u), nil
		}
	}
	return nil, core.ErrNotFound
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email != "" && u.Email == email {
			return clone(u), nil
		}
	}
	return nil, core.ErrNotFound
}

func (s *Store) FindByExternalID(ctx context.Context, provider, externalID string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ExternalProvider == provider && u.ExternalID == externalID {
			return clone(u), nil
		}
	}
	return nil, core.ErrNotFound
}

func (s *Store) TryCreate(ctx context.Context, in *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[in.ID]; exists {
		return core.ErrConflict
	}
	for _, u := range s.users {
		if u.Username == in.Username {
			return core.ErrConflict
		}
		if in.Email != "" && u.Email == in.Email {
			return core.ErrConflict
		}
		if in.ExternalProvider != "" && u.ExternalProvider == in.ExternalProvider && u.ExternalID == in.ExternalID {
			return core.ErrConflict
		}
	}

	u := clone(in)
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	s.users[u.ID] = u
	return nil
}

// Len reporta la cantidad de usuarios almacenados. Solo para tests.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func clone(u *domain.User) *domain.User {
	c := *u
	return &c
}
