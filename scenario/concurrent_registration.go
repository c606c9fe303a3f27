package scenario

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"myusers/handlers"
	"myusers/service"
)

const scenarioConcurrentRegistration = "concurrent_registration"

func init() {
	Register(scenarioConcurrentRegistration, runConcurrentRegistration)
}

// runConcurrentRegistration races several clients registering one email. Exactly one wins.
func runConcurrentRegistration(ctx context.Context, cfg *Config) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := NewClient(cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	const numClients = 8
	userEmail := email(cfg, "race")

	results := make([]Response, numClients)
	errs := make([]error, numClients)
	var wg sync.WaitGroup
	for i := 0; i < numClients; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = client.CreateUser(ctx, handlers.NewUser{
				Email:    service.Ptr(userEmail),
				Name:     userName(cfg, fmt.Sprintf("Racer%d", i+1)),
				Password: service.Ptr("p"),
			})
		}(i)
	}
	wg.Wait()

	var created, conflicts int
	for i := 0; i < numClients; i++ {
		if errs[i] != nil {
			return fmt.Errorf("create user (client%d): %w", i+1, errs[i])
		}
		switch {
		case ExpectSuccess(results[i]) == nil:
			created++
		case ExpectFailure(results[i], http.StatusConflict, service.ErrDuplicateEmail) == nil:
			conflicts++
		default:
			return fmt.Errorf("create user (client%d): unexpected status=%d body=%s", i+1, results[i].Status, results[i].Body)
		}
	}
	if created != 1 || conflicts != numClients-1 {
		return fmt.Errorf("created=%d conflicts=%d, want 1 and %d", created, conflicts, numClients-1)
	}

	return nil
}
