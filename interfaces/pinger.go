package interfaces

import "context"

// Pinger checks that a backing service is reachable. Used by health checks.
//
//go:generate moq -stub -out mock/pinger.go -pkg mock . Pinger
type Pinger interface {
	Ping(ctx context.Context) error
}
