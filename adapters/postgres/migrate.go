package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const (
	migrationsDir    = "migrations"
	migrationTimeout = time.Minute
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrator applies the embedded schema migrations with goose.
type Migrator struct {
	dsn    string
	logger log.Logger
}

// NewMigrator creates a Migrator for dsn.
func NewMigrator(dsn string, logger log.Logger) (*Migrator, error) {
	if dsn == "" {
		return nil, errors.New("empty postgres dsn")
	}
	return &Migrator{
		dsn:    dsn,
		logger: log.WithPrefix(logger, "component", "Migrator"),
	}, nil
}

// Up applies pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	return m.withDB(func(db *sql.DB) error {
		ctx, cancel := context.WithTimeout(ctx, migrationTimeout)
		defer cancel()

		level.Info(m.logger).Log("msg", "Applying migrations")
		if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		level.Info(m.logger).Log("msg", "Migrations applied")
		return nil
	})
}

// Down rolls back the latest migration, or down to targetVersion when it is positive.
func (m *Migrator) Down(ctx context.Context, targetVersion int64) error {
	return m.withDB(func(db *sql.DB) error {
		ctx, cancel := context.WithTimeout(ctx, migrationTimeout)
		defer cancel()

		if targetVersion > 0 {
			level.Info(m.logger).Log("msg", "Rolling back migrations", "target", targetVersion)
			if err := goose.DownToContext(ctx, db, migrationsDir, targetVersion); err != nil {
				return fmt.Errorf("rollback to version %d: %w", targetVersion, err)
			}
			return nil
		}

		level.Info(m.logger).Log("msg", "Rolling back latest migration")
		if err := goose.DownContext(ctx, db, migrationsDir); err != nil {
			return fmt.Errorf("rollback latest migration: %w", err)
		}
		return nil
	})
}

// Status logs applied and pending migrations.
func (m *Migrator) Status(ctx context.Context) error {
	return m.withDB(func(db *sql.DB) error {
		if err := goose.StatusContext(ctx, db, migrationsDir); err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
		return nil
	})
}

// Version returns the current schema version.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	var version int64
	err := m.withDB(func(db *sql.DB) error {
		v, err := goose.GetDBVersionContext(ctx, db)
		if err != nil {
			return fmt.Errorf("migration version: %w", err)
		}
		version = v
		return nil
	})
	return version, err
}

func (m *Migrator) withDB(fn func(*sql.DB) error) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{logger: m.logger})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("configure goose: %w", err)
	}

	db, err := sql.Open("pgx", m.dsn)
	if err != nil {
		return fmt.Errorf("open sql connection: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping sql connection: %w", err)
	}

	return fn(db)
}

// gooseLogger routes goose output to the service logger.
type gooseLogger struct {
	logger log.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	level.Info(l.logger).Log("msg", strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	level.Error(l.logger).Log("msg", strings.TrimSpace(fmt.Sprintf(format, v...)))
	os.Exit(1)
}
