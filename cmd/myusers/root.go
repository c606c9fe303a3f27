package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "myusers",
		Short: "User registration and lookup service",
		Long: `myusers registers users and finds them by name over HTTP. Usage:

	myusers serve
	myusers openapi --out api/openapi.json
	myusers migrate up
	myusers scenario --all
`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newOpenAPICmd(),
		newMigrateCmd(),
		newScenarioCmd(),
	)
	return rootCmd
}
