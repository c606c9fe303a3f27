// Package postgres stores users in PostgreSQL. The schema lives in migrations/ and is applied with goose.
package postgres

import (
	"context"
	"errors"

	"myusers/domain"
	"myusers/service"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type userStore struct {
	pool *pgxpool.Pool
}

// NewUserStore creates a UserStore backed by pool.
func NewUserStore(pool *pgxpool.Pool) *userStore {
	return &userStore{
		pool: service.NilPanic(pool, "postgres.user_store.go: pool is required"),
	}
}

func (s *userStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	var exists bool
	if err := s.pool.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, service.NewStoreUnavailableError("postgres exists query failed", err)
	}
	return exists, nil
}

// GetByName returns the first stored user with the name. ids come from a sequence, so they follow insertion order.
func (s *userStore) GetByName(ctx context.Context, name string) (domain.User, bool, error) {
	const query = `SELECT email, name, password_hash, created_at FROM users
		WHERE name = $1
		ORDER BY id
		LIMIT 1`
	var u domain.User
	err := s.pool.QueryRow(ctx, query, name).Scan(&u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, service.NewStoreUnavailableError("postgres select by name failed", err)
	}
	return u, true, nil
}

func (s *userStore) Put(ctx context.Context, user domain.User) error {
	const query = `INSERT INTO users (email, name, password_hash, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := s.pool.Exec(ctx, query, user.Email, user.Name, user.PasswordHash, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return service.NewConflictError("email is already stored", err)
		}
		return service.NewStoreUnavailableError("postgres insert failed", err)
	}
	return nil
}

func (s *userStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return service.NewStoreUnavailableError("postgres ping failed", err)
	}
	return nil
}

// Close releases the pool connections.
func (s *userStore) Close() error {
	s.pool.Close()
	return nil
}
