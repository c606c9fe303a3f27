package service

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a PasswordHasher that stores passwords as bcrypt hashes with the given cost.
// Returns an error when cost is outside [bcrypt.MinCost, bcrypt.MaxCost].
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be within [%d, %d], got %d", bcrypt.MinCost, bcrypt.MaxCost, cost)
	}
	return &BcryptHasher{cost: cost}, nil
}

// Hash accepts passwords of any length.
func (h *BcryptHasher) Hash(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(password), h.cost)
	if err != nil {
		return nil, fmt.Errorf("can't hash password, err: %w", err)
	}
	return hash, nil
}

// ComparePassword reports whether password matches the stored credential.
func ComparePassword(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, bcryptInput(password)) == nil
}

// bcryptInput digests the password so that bcrypt's 72 byte input limit never truncates or rejects it.
func bcryptInput(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}
