package scenario

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
)

const scenarioGRPCHealth = "grpc_health"

func init() {
	Register(scenarioGRPCHealth, runGRPCHealth)
}

// runGRPCHealth checks that the gRPC health server reports SERVING.
func runGRPCHealth(ctx context.Context, cfg *Config) error {
	if cfg.GRPCAddr == "" {
		return &SkippedError{Reason: "no gRPC address given"}
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	conn, err := grpc.NewClient(cfg.GRPCAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dial grpc: %w", err)
	}
	defer conn.Close()

	resp, err := grpc_health_v1.NewHealthClient(conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		return fmt.Errorf("health status=%s, want SERVING", resp.GetStatus())
	}

	return nil
}
