// Package pg implementa core.UserRepository sobre PostgreSQL (pgx).
package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skycast-dev/skycast/internal/domain"
	"github.com/skycast-dev/skycast/internal/store/core"
)

const uniqueViolation = "23505"

type Store struct {
	pool *pgxpool.Pool
}

// Open crea el pool y verifica la conexión.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

func New(pool *pgxpool.Pool) *Store { return &Store{pool: pool} }

func (s *Store) Close() { s.pool.Close() }

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

const userColumns = `id, username, email, password_hash, external_provider, external_id, created_at`

func (s *Store) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return s.scanUser(s.pool.QueryRow(ctx, query, username))
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return s.scanUser(s.pool.QueryRow(ctx, query, email))
}

func (s *Store) FindByExternalID(ctx context.Context, provider, externalID string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE external_provider = $1 AND external_id = $2`
	return s.scanUser(s.pool.QueryRow(ctx, query, provider, externalID))
}

// TryCreate inserta el usuario. La unicidad (username, email, provider+id)
// la garantizan los índices únicos del schema; una violación se traduce a
// core.ErrConflict.
func (s *Store) TryCreate(ctx context.Context, u *domain.User) error {
	const query = `
		INSERT INTO users (id, username, email, password_hash, external_provider, external_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := s.pool.Exec(ctx, query,
		u.ID,
		u.Username,
		nullIfEmpty(u.Email),
		u.PasswordHash,
		nullIfEmpty(u.ExternalProvider),
		nullIfEmpty(u.ExternalID),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return core.ErrConflict
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Store) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var email, provider, externalID *string

	err := row.Scan(&u.ID, &u.Username, &email, &u.PasswordHash, &provider, &externalID, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	if email != nil {
		u.Email = *email
	}
	if provider != nil {
		u.ExternalProvider = *provider
	}
	if externalID != nil {
		u.ExternalID = *externalID
	}
	return &u, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
