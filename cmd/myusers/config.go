package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"myusers/service"

	"github.com/go-kit/log/level"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	backendMemory   = "memory"
	backendRedis    = "redis"
	backendPostgres = "postgres"

	defaultHTTPPort      = 8000
	defaultRabbitMQQueue = "user.registered"
)

type RedisConfig struct {
	Addr string
}

type PostgresConfig struct {
	DSN     string
	Migrate bool
}

type RabbitMQConfig struct {
	URL   string // empty disables events
	Queue string
}

type MyUsersConfig struct {
	HTTPPort     int
	GRPCPort     int // 0 disables the gRPC health server
	StoreBackend string
	Redis        RedisConfig
	Postgres     PostgresConfig
	RabbitMQ     RabbitMQConfig
	BcryptCost   int
	StoreTimeout time.Duration
	LogLevel     level.Value
}

// loadDotEnv reads .env into the environment when ENV=dev. Variables already set win.
func loadDotEnv() {
	if os.Getenv("ENV") == "dev" {
		_ = godotenv.Load()
	}
}

// LoadConfig loads configuration from environment variables.
// REDIS_ADDR is required for the redis backend and POSTGRES_DSN for the postgres backend.
func LoadConfig() (*MyUsersConfig, error) {
	loadDotEnv()

	httpPort, err := intFromEnv("SERVICE_PORT_HTTP", defaultHTTPPort)
	if err != nil {
		return nil, err
	}
	if httpPort <= 0 || httpPort > 65535 {
		return nil, fmt.Errorf("invalid SERVICE_PORT_HTTP: %d is out of range", httpPort)
	}

	grpcPort, err := intFromEnv("SERVICE_PORT_GRPC", 0)
	if err != nil {
		return nil, err
	}
	if grpcPort < 0 || grpcPort > 65535 {
		return nil, fmt.Errorf("invalid SERVICE_PORT_GRPC: %d is out of range", grpcPort)
	}

	backend := strings.ToLower(strings.TrimSpace(os.Getenv("STORE_BACKEND")))
	if backend == "" {
		backend = backendMemory
	}

	config := &MyUsersConfig{
		HTTPPort:     httpPort,
		GRPCPort:     grpcPort,
		StoreBackend: backend,
		Redis: RedisConfig{
			Addr: os.Getenv("REDIS_ADDR"),
		},
		Postgres: PostgresConfig{
			DSN: os.Getenv("POSTGRES_DSN"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:   os.Getenv("RABBITMQ_URL"),
			Queue: os.Getenv("RABBITMQ_QUEUE"),
		},
	}

	switch backend {
	case backendMemory:
	case backendRedis:
		if config.Redis.Addr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required")
		}
	case backendPostgres:
		if config.Postgres.DSN == "" {
			return nil, fmt.Errorf("POSTGRES_DSN is required")
		}
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND: %q, want one of memory, redis, postgres", backend)
	}

	if config.Postgres.Migrate, err = boolFromEnv("POSTGRES_MIGRATE", false); err != nil {
		return nil, err
	}

	if config.RabbitMQ.Queue == "" {
		config.RabbitMQ.Queue = defaultRabbitMQQueue
	}

	if config.BcryptCost, err = intFromEnv("BCRYPT_COST", bcrypt.DefaultCost); err != nil {
		return nil, err
	}
	if config.BcryptCost < bcrypt.MinCost || config.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %d, want %d..%d", config.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	if config.StoreTimeout, err = durationFromEnv("STORE_TIMEOUT", service.DefaultStoreTimeout); err != nil {
		return nil, err
	}
	if config.StoreTimeout <= 0 {
		return nil, fmt.Errorf("invalid STORE_TIMEOUT: must be positive")
	}

	if config.LogLevel, err = logLevelFromEnv(); err != nil {
		return nil, err
	}

	return config, nil
}

func logLevelFromEnv() (level.Value, error) {
	s := os.Getenv("LOG_LEVEL")
	if s == "" {
		return level.InfoValue(), nil
	}
	v, err := level.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return v, nil
}

func intFromEnv(name string, def int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}

func boolFromEnv(name string, def bool) (bool, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}

func durationFromEnv(name string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}
