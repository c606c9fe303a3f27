package domain

import "time"

// User represents a registered account owned by the user store.
type User struct {
	Email        string  // unique across all users
	Name         *string // optional display name, not unique
	PasswordHash []byte  // opaque credential, never the plaintext
	CreatedAt    time.Time
}

// Public returns the fields of the user that are safe to hand to any caller.
func (u User) Public() PublicUser {
	return PublicUser{
		Email: u.Email,
		Name:  u.Name,
	}
}

// PublicUser is the subset of User returned by lookup and registration.
type PublicUser struct {
	Email string
	Name  *string
}

// RegistrationPayload is the raw registration input before validation.
// Nil fields were absent from the request.
type RegistrationPayload struct {
	Email    *string
	Name     *string
	Password *string
}
