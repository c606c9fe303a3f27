package service

import (
	"context"
	"time"

	"myusers/domain"
	"myusers/interfaces"
)

// DefaultStoreTimeout bounds a single user store call when no timeout is configured.
const DefaultStoreTimeout = 3 * time.Second

// RegistrationService creates users: validation, duplicate check, credential hashing and the store write.
type RegistrationService struct {
	store        interfaces.UserStore
	hasher       interfaces.PasswordHasher
	now          func() time.Time
	storeTimeout time.Duration
}

// NewRegistrationService creates a RegistrationService.
//
// Parameters: store: user store; hasher: turns the plaintext password into the stored credential;
// now: clock for User.CreatedAt; storeTimeout: deadline of every store call (DefaultStoreTimeout when <= 0).
// Panics on nil store, hasher or now.
func NewRegistrationService(
	store interfaces.UserStore,
	hasher interfaces.PasswordHasher,
	now func() time.Time,
	storeTimeout time.Duration,
) *RegistrationService {
	if storeTimeout <= 0 {
		storeTimeout = DefaultStoreTimeout
	}
	return &RegistrationService{
		store:        NilPanic(store, "service.registration.go: store is required"),
		hasher:       NilPanic(hasher, "service.registration.go: hasher is required"),
		now:          NilPanic(now, "service.registration.go: now is required"),
		storeTimeout: storeTimeout,
	}
}

// Register validates the payload and persists a new user.
//
// Returns: (public user, nil) on success; a *MyError with a validation code, ErrDuplicateEmail,
// ErrStoreUnavailable or ErrInternalServerError otherwise. Nothing is persisted on failure.
func (s *RegistrationService) Register(ctx context.Context, payload domain.RegistrationPayload) (domain.PublicUser, error) {
	if err := ValidateRegistration(payload); err != nil {
		return domain.PublicUser{}, err
	}
	email := Value(payload.Email)

	exists, err := s.existsByEmail(ctx, email)
	if err != nil {
		return domain.PublicUser{}, NewStoreUnavailableError("can't check email", err)
	}
	if exists {
		return domain.PublicUser{}, NewMyError(ErrDuplicateEmail, "email is already registered", nil)
	}

	hash, err := s.hasher.Hash(Value(payload.Password))
	if err != nil {
		return domain.PublicUser{}, NewInternalServerError("can't hash password", err)
	}

	user := domain.User{
		Email:        email,
		Name:         payload.Name,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	if err := s.put(ctx, user); err != nil {
		// conflict here means another request stored the same email after our check
		if IsConflictError(err) {
			return domain.PublicUser{}, NewMyError(ErrDuplicateEmail, "email is already registered", err)
		}
		return domain.PublicUser{}, NewStoreUnavailableError("can't store user", err)
	}

	return user.Public(), nil
}

func (s *RegistrationService) existsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return s.store.ExistsByEmail(ctx, email)
}

func (s *RegistrationService) put(ctx context.Context, user domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return s.store.Put(ctx, user)
}
