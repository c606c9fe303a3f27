package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"myusers/adapters/memory"
	"myusers/adapters/postgres"
	"myusers/adapters/rabbitmq"
	myredis "myusers/adapters/redis"
	"myusers/handlers"
	"myusers/interfaces"
	"myusers/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const (
	connectTimeout      = 5 * time.Second
	shutdownTimeout     = 10 * time.Second
	healthCheckInterval = 10 * time.Second
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Starts the HTTP server",
		Long: `Starts the HTTP server, and the gRPC health server when SERVICE_PORT_GRPC is set. Usage:

	STORE_BACKEND=redis REDIS_ADDR=redis://localhost:6379 myusers serve
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := LoadConfig()
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "failed to load configuration: %v\n", err)
				return err
			}
			logger := newLogger(os.Stderr, config.LogLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := serve(ctx, config, logger); err != nil {
				level.Error(logger).Log("msg", "Server failed", "err", err)
				return err
			}
			return nil
		},
	}
}

// storeBackend is a user store that also reports reachability.
type storeBackend interface {
	interfaces.UserStore
	interfaces.Pinger
}

// app is the assembled service, ready to listen.
type app struct {
	echo       *echo.Echo
	grpcServer *grpc.Server // nil when the gRPC port is disabled
	health     *handlers.HealthReporter
	closers    []func() error
}

// close releases resources in reverse order of acquisition.
func (a *app) close(logger log.Logger) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			level.Warn(logger).Log("msg", "Failed to release resource", "err", err)
		}
	}
}

func openStore(ctx context.Context, config *MyUsersConfig, logger log.Logger) (storeBackend, func() error, error) {
	switch config.StoreBackend {
	case backendRedis:
		client, err := myredis.NewRedisUniversalClient(config.Redis.Addr, myredis.WithTimeouts(config.StoreTimeout))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Redis client: %w", err)
		}
		store := myredis.NewUserStore(client)

		ctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		level.Info(logger).Log("msg", "Connected to Redis")
		return store, store.Close, nil

	case backendPostgres:
		if config.Postgres.Migrate {
			migrator, err := postgres.NewMigrator(config.Postgres.DSN, logger)
			if err != nil {
				return nil, nil, err
			}
			if err := migrator.Up(ctx); err != nil {
				return nil, nil, err
			}
		}

		ctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		pool, err := postgres.NewPool(ctx, config.Postgres.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		level.Info(logger).Log("msg", "Connected to Postgres")
		store := postgres.NewUserStore(pool)
		return store, store.Close, nil

	default:
		level.Warn(logger).Log("msg", "Using in-memory user store, users are lost on restart")
		return memory.NewUserStore(), func() error { return nil }, nil
	}
}

// newApp wires stores, services and servers from config. Nothing listens yet.
func newApp(ctx context.Context, config *MyUsersConfig, logger log.Logger) (*app, error) {
	a := &app{}

	store, closeStore, err := openStore(ctx, config, logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeStore)

	var publisher interfaces.EventPublisher
	if config.RabbitMQ.URL != "" {
		p, err := rabbitmq.NewPublisher(config.RabbitMQ.URL, config.RabbitMQ.Queue)
		if err != nil {
			a.close(logger)
			return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		level.Info(logger).Log("msg", "Connected to RabbitMQ", "queue", config.RabbitMQ.Queue)
		publisher = p
		a.closers = append(a.closers, p.Close)
	}

	hasher, err := service.NewBcryptHasher(config.BcryptCost)
	if err != nil {
		a.close(logger)
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := handlers.NewMetrics(registry)
	if err != nil {
		a.close(logger)
		return nil, err
	}

	var grpcHealth *health.Server
	if config.GRPCPort > 0 {
		grpcHealth = health.NewServer()
		a.grpcServer = grpc.NewServer()
		grpc_health_v1.RegisterHealthServer(a.grpcServer, grpcHealth)
		reflection.Register(a.grpcServer)
	}
	a.health = handlers.NewHealthReporter(store, grpcHealth, logger)

	now := func() time.Time { return time.Now().UTC() }
	httpServer := handlers.NewHTTPServer(
		service.NewRegistrationService(store, hasher, now, config.StoreTimeout),
		service.NewLookupService(store, config.StoreTimeout),
		publisher,
		metrics,
		now,
		logger,
	)
	a.echo = handlers.NewEcho(httpServer, metrics, registry, a.health, logger)

	return a, nil
}

// serve runs the servers until ctx is done, then shuts them down gracefully.
func serve(ctx context.Context, config *MyUsersConfig, logger log.Logger) error {
	level.Info(logger).Log("msg", "Starting MyUsers service")
	level.Info(logger).Log(
		"msg", "Configuration loaded",
		"service_port_http", config.HTTPPort,
		"service_port_grpc", config.GRPCPort,
		"store_backend", config.StoreBackend,
		"events", config.RabbitMQ.URL != "",
	)

	a, err := newApp(ctx, config, logger)
	if err != nil {
		return err
	}
	defer a.close(logger)

	errCh := make(chan error, 2)

	if a.grpcServer != nil {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%d", config.GRPCPort))
		if err != nil {
			return fmt.Errorf("failed to listen gRPC port: %w", err)
		}
		go func() {
			level.Info(logger).Log("msg", "Starting gRPC health server", "addr", lis.Addr().String())
			if err := a.grpcServer.Serve(lis); err != nil {
				errCh <- fmt.Errorf("gRPC server error: %w", err)
			}
		}()
	}

	go func() {
		addr := fmt.Sprintf(":%d", config.HTTPPort)
		level.Info(logger).Log("msg", "Starting HTTP server", "addr", addr)
		if err := a.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	healthCtx, stopHealth := context.WithCancel(ctx)
	defer stopHealth()
	go a.health.Run(healthCtx, healthCheckInterval)

	select {
	case <-ctx.Done():
		level.Info(logger).Log("msg", "Shutting down server...")
	case err = <-errCh:
	}
	stopHealth()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if shutdownErr := a.echo.Shutdown(shutdownCtx); shutdownErr != nil {
		level.Error(logger).Log("msg", "Error during server shutdown", "err", shutdownErr)
	}
	if a.grpcServer != nil {
		a.grpcServer.GracefulStop()
	}

	level.Info(logger).Log("msg", "Server stopped")
	return err
}
