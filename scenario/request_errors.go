package scenario

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"myusers/service"
)

const scenarioRequestErrors = "request_errors"

func init() {
	Register(scenarioRequestErrors, runRequestErrors)
}

// runRequestErrors sends malformed and invalid requests and checks status and reason code of each.
func runRequestErrors(ctx context.Context, cfg *Config) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := NewClient(cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	unused := email(cfg, "invalid")
	registrations := []struct {
		name string
		body string
		code string
	}{
		{name: "malformed JSON", body: `{"email":`, code: service.ErrBadParameter},
		{name: "empty object", body: `{}`, code: service.ErrMissingEmail},
		{name: "empty email", body: `{"email":"","password":"p"}`, code: service.ErrMissingEmail},
		{name: "invalid email", body: `{"email":"not-an-email","password":"p"}`, code: service.ErrInvalidEmail},
		{name: "missing password", body: `{"email":"` + unused + `"}`, code: service.ErrMissingPassword},
	}
	for _, r := range registrations {
		resp, err := client.CreateUserRaw(ctx, []byte(r.body))
		if err != nil {
			return fmt.Errorf("create user (%s): %w", r.name, err)
		}
		if err := ExpectFailure(resp, http.StatusBadRequest, r.code); err != nil {
			return fmt.Errorf("create user (%s): %w", r.name, err)
		}
	}

	// nothing of the above may have been stored
	resp, err := client.CreateUserRaw(ctx, []byte(`{"email":"`+unused+`","password":"p"}`))
	if err != nil {
		return fmt.Errorf("create user after rejections: %w", err)
	}
	if err := ExpectSuccess(resp); err != nil {
		return fmt.Errorf("create user after rejections: %w", err)
	}

	lookups := []struct {
		name   string
		status int
		code   string
	}{
		{name: "unknown " + cfg.RunID, status: http.StatusNotFound, code: service.ErrEntityNotFound},
		{name: "", status: http.StatusBadRequest, code: service.ErrBadParameter},
	}
	for _, l := range lookups {
		resp, err := client.GetUser(ctx, l.name)
		if err != nil {
			return fmt.Errorf("get user %q: %w", l.name, err)
		}
		if err := ExpectFailure(resp, l.status, l.code); err != nil {
			return fmt.Errorf("get user %q: %w", l.name, err)
		}
	}

	return nil
}
