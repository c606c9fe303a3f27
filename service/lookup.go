package service

import (
	"context"
	"time"

	"myusers/domain"
	"myusers/interfaces"
)

// LookupService resolves users by name.
type LookupService struct {
	store        interfaces.UserStore
	storeTimeout time.Duration
}

// NewLookupService creates a LookupService. Panics on nil store.
func NewLookupService(store interfaces.UserStore, storeTimeout time.Duration) *LookupService {
	if storeTimeout <= 0 {
		storeTimeout = DefaultStoreTimeout
	}
	return &LookupService{
		store:        NilPanic(store, "service.lookup.go: store is required"),
		storeTimeout: storeTimeout,
	}
}

// FindByName returns the public fields of the earliest registered user with the given name.
//
// Returns: ErrBadParameter for an empty name, ErrEntityNotFound when no user has that name,
// ErrStoreUnavailable when the store cannot be reached.
func (s *LookupService) FindByName(ctx context.Context, name string) (domain.PublicUser, error) {
	if name == "" {
		return domain.PublicUser{}, NewBadParameterError("name is required", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	user, found, err := s.store.GetByName(ctx, name)
	if err != nil {
		return domain.PublicUser{}, NewStoreUnavailableError("can't read user", err)
	}
	if !found {
		return domain.PublicUser{}, NewEntityNotFoundError("user not found", nil)
	}

	return user.Public(), nil
}
