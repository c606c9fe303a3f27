package handlers

import (
	"context"
	"net/http"
	"time"

	"myusers/interfaces"
	"myusers/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

const defaultPingTimeout = 2 * time.Second

// HealthReporter derives service health from the user store reachability.
// The result is served on GET /healthz and pushed to a gRPC health server.
type HealthReporter struct {
	pinger      interfaces.Pinger
	grpcHealth  *health.Server // optional
	pingTimeout time.Duration
	logger      log.Logger
}

// NewHealthReporter creates a HealthReporter. grpcHealth may be nil when no gRPC port is configured.
func NewHealthReporter(pinger interfaces.Pinger, grpcHealth *health.Server, logger log.Logger) *HealthReporter {
	return &HealthReporter{
		pinger:      service.NilPanic(pinger, "handlers.health.go: pinger is required"),
		grpcHealth:  grpcHealth,
		pingTimeout: defaultPingTimeout,
		logger:      log.WithPrefix(logger, "component", "HealthReporter"),
	}
}

// Check pings the store and publishes the result to the gRPC health server.
func (r *HealthReporter) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.pingTimeout)
	defer cancel()

	err := r.pinger.Ping(ctx)
	if r.grpcHealth != nil {
		status := grpc_health_v1.HealthCheckResponse_SERVING
		if err != nil {
			status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
		}
		r.grpcHealth.SetServingStatus("", status)
	}
	return err
}

// Run checks health every interval until ctx is done, then marks the gRPC health server as shutting down.
func (r *HealthReporter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	healthy := true
	for {
		if err := r.Check(ctx); err != nil {
			if healthy {
				level.Warn(r.logger).Log("msg", "User store is unreachable", "err", err)
			}
			healthy = false
		} else {
			if !healthy {
				level.Info(r.logger).Log("msg", "User store is reachable again")
			}
			healthy = true
		}

		select {
		case <-ctx.Done():
			if r.grpcHealth != nil {
				r.grpcHealth.Shutdown()
			}
			return
		case <-ticker.C:
		}
	}
}

// Healthz (GET /healthz) answers 200 when the store is reachable and 503 otherwise.
func (r *HealthReporter) Healthz(ectx echo.Context) error {
	if err := r.Check(ectx.Request().Context()); err != nil {
		return service.NewStoreUnavailableError("user store is unreachable", err)
	}
	return ectx.JSON(http.StatusOK, service.NewSuccess())
}
