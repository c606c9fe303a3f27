package main

import (
	"errors"
	"os"

	"myusers/adapters/postgres"

	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run Postgres schema migrations",
		Long: `Run Postgres schema migrations against POSTGRES_DSN. Usage:

	myusers migrate up
	myusers migrate down --to 0
	myusers migrate status
`,
	}

	var target int64
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration, or down to --to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrator()
			if err != nil {
				return err
			}
			return m.Down(cmd.Context(), target)
		},
	}
	downCmd.Flags().Int64Var(&target, "to", 0, "target version, 0 rolls back one migration")

	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := newMigrator()
				if err != nil {
					return err
				}
				return m.Up(cmd.Context())
			},
		},
		downCmd,
		&cobra.Command{
			Use:   "status",
			Short: "Print applied and pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := newMigrator()
				if err != nil {
					return err
				}
				return m.Status(cmd.Context())
			},
		},
	)
	return migrateCmd
}

func newMigrator() (*postgres.Migrator, error) {
	loadDotEnv()

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	logger := newLogger(os.Stderr, level.ParseDefault(os.Getenv("LOG_LEVEL"), level.InfoValue()))
	return postgres.NewMigrator(dsn, logger)
}
