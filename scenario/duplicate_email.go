package scenario

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"myusers/handlers"
	"myusers/service"
)

const scenarioDuplicateEmail = "duplicate_email"

func init() {
	Register(scenarioDuplicateEmail, runDuplicateEmail)
}

// runDuplicateEmail registers the same email twice. The second attempt is rejected and the first user is kept.
func runDuplicateEmail(ctx context.Context, cfg *Config) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := NewClient(cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	userEmail := email(cfg, "duplicate")
	first := userName(cfg, "First")
	second := userName(cfg, "Second")

	resp, err := client.CreateUser(ctx, handlers.NewUser{Email: service.Ptr(userEmail), Name: first, Password: service.Ptr("p1")})
	if err != nil {
		return fmt.Errorf("create first user: %w", err)
	}
	if err := ExpectSuccess(resp); err != nil {
		return fmt.Errorf("create first user: %w", err)
	}

	resp, err = client.CreateUser(ctx, handlers.NewUser{Email: service.Ptr(userEmail), Name: second, Password: service.Ptr("p2")})
	if err != nil {
		return fmt.Errorf("create second user: %w", err)
	}
	if err := ExpectFailure(resp, http.StatusConflict, service.ErrDuplicateEmail); err != nil {
		return fmt.Errorf("create second user: %w", err)
	}

	resp, err = client.GetUser(ctx, *first)
	if err != nil {
		return fmt.Errorf("get first user: %w", err)
	}
	if err := ExpectUser(resp, userEmail, first); err != nil {
		return fmt.Errorf("get first user: %w", err)
	}

	resp, err = client.GetUser(ctx, *second)
	if err != nil {
		return fmt.Errorf("get second user: %w", err)
	}
	if err := ExpectFailure(resp, http.StatusNotFound, service.ErrEntityNotFound); err != nil {
		return fmt.Errorf("get second user: %w", err)
	}

	return nil
}
