package interfaces

import (
	"context"

	"myusers/domain"
)

// EventPublisher announces registrations to other services.
//
//go:generate moq -stub -out mock/event_publisher.go -pkg mock . EventPublisher
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegistered) error
}
