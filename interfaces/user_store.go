package interfaces

import (
	"context"

	"myusers/domain"
)

// UserStore is the persistence boundary holding users. Implementations: memory, Redis, Postgres.
//
//go:generate moq -stub -out mock/user_store.go -pkg mock . UserStore
type UserStore interface {
	// ExistsByEmail reports whether a user with the given email is stored.
	// Returns:
	// 1) (true|false, nil) on success;
	// 2) (false, store_unavailable) when the backing store cannot be reached.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// GetByName returns the earliest registered user with the given name.
	// Returns:
	// 1) (user, true, nil) when found;
	// 2) (zero, false, nil) when no user has that name;
	// 3) (zero, false, store_unavailable) when the backing store cannot be reached.
	GetByName(ctx context.Context, name string) (domain.User, bool, error)

	// Put stores the user. The write is all-or-nothing: after a failed or cancelled Put
	// the user is visible neither by email nor by name.
	// Returns:
	// 1) nil on success;
	// 2) conflict when a user with the same email is already stored;
	// 3) store_unavailable when the backing store cannot be reached.
	Put(ctx context.Context, user domain.User) error
}
