package domain

import "time"

// UserRegistered is published after a user has been persisted.
type UserRegistered struct {
	Email        string
	Name         *string
	RegisteredAt time.Time
}
