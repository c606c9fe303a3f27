// Package memory keeps users in process memory. It backs the default configuration and tests.
package memory

import (
	"bytes"
	"context"
	"sync"

	"myusers/domain"
	"myusers/service"
)

type userStore struct {
	mu      sync.RWMutex
	byEmail map[string]domain.User
	byName  map[string][]string // emails in registration order
}

// NewUserStore creates an empty in-memory UserStore.
func NewUserStore() *userStore {
	return &userStore{
		byEmail: make(map[string]domain.User),
		byName:  make(map[string][]string),
	}
}

func (s *userStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, service.NewStoreUnavailableError("memory store call abandoned", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byEmail[email]
	return ok, nil
}

func (s *userStore) GetByName(ctx context.Context, name string) (domain.User, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, false, service.NewStoreUnavailableError("memory store call abandoned", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	emails := s.byName[name]
	if len(emails) == 0 {
		return domain.User{}, false, nil
	}
	return cloneUser(s.byEmail[emails[0]]), true, nil
}

// Put inserts both indexes under one lock, so a user is never visible by email only.
func (s *userStore) Put(ctx context.Context, user domain.User) error {
	if err := ctx.Err(); err != nil {
		return service.NewStoreUnavailableError("memory store call abandoned", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[user.Email]; ok {
		return service.NewConflictError("email is already stored", nil)
	}
	s.byEmail[user.Email] = cloneUser(user)
	if user.Name != nil {
		s.byName[*user.Name] = append(s.byName[*user.Name], user.Email)
	}
	return nil
}

// Ping always succeeds.
func (s *userStore) Ping(context.Context) error {
	return nil
}

// Len returns the number of stored users.
func (s *userStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byEmail)
}

func cloneUser(u domain.User) domain.User {
	u.PasswordHash = bytes.Clone(u.PasswordHash)
	if u.Name != nil {
		u.Name = service.Ptr(*u.Name)
	}
	return u
}
