package scenario

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"myusers/handlers"
	"myusers/service"
)

const scenarioBasicWorkflow = "basic_workflow"

func init() {
	Register(scenarioBasicWorkflow, runBasicWorkflow)
}

// runBasicWorkflow registers users and finds them by name.
func runBasicWorkflow(ctx context.Context, cfg *Config) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := NewClient(cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	// 1. Health
	status, err := client.Healthz(ctx)
	if err != nil {
		return fmt.Errorf("healthz: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("healthz: status=%d, want 200", status)
	}

	// 2. Register
	userEmail := email(cfg, "basic")
	name := userName(cfg, "Basic")
	resp, err := client.CreateUser(ctx, handlers.NewUser{
		Email:    service.Ptr(userEmail),
		Name:     name,
		Password: service.Ptr("secret"),
	})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	if err := ExpectSuccess(resp); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	// 3. Lookup
	resp, err = client.GetUser(ctx, *name)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if err := ExpectUser(resp, userEmail, name); err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	// 4. Names that need escaping in the path
	escapedEmail := email(cfg, "escaped")
	escapedName := userName(cfg, "50% a/b")
	resp, err = client.CreateUser(ctx, handlers.NewUser{
		Email:    service.Ptr(escapedEmail),
		Name:     escapedName,
		Password: service.Ptr("secret"),
	})
	if err != nil {
		return fmt.Errorf("create user with escaped name: %w", err)
	}
	if err := ExpectSuccess(resp); err != nil {
		return fmt.Errorf("create user with escaped name: %w", err)
	}
	resp, err = client.GetUser(ctx, *escapedName)
	if err != nil {
		return fmt.Errorf("get user with escaped name: %w", err)
	}
	if err := ExpectUser(resp, escapedEmail, escapedName); err != nil {
		return fmt.Errorf("get user with escaped name: %w", err)
	}

	return nil
}
