package service

import (
	"regexp"

	"myusers/domain"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// ValidateRegistration checks the structure of a registration payload. Rules are applied in order
// and the first failure wins: email present, email shaped like local@domain.tld, password present.
//
// Returns nil when the payload is acceptable, otherwise a *MyError whose code names the reason
// (ErrMissingEmail, ErrInvalidEmail, ErrMissingPassword).
func ValidateRegistration(p domain.RegistrationPayload) error {
	email := Value(p.Email)
	if email == "" {
		return NewMyError(ErrMissingEmail, "email is required", nil)
	}
	if !emailPattern.MatchString(email) {
		return NewMyError(ErrInvalidEmail, "email must look like local@domain.tld", nil)
	}

	password := Value(p.Password)
	if password == "" {
		return NewMyError(ErrMissingPassword, "password is required", nil)
	}

	return nil
}
