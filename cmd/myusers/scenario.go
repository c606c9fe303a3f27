package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"myusers/scenario"

	"github.com/spf13/cobra"
)

func newScenarioCmd() *cobra.Command {
	var (
		list   bool
		all    bool
		config scenario.Config
	)
	cmd := &cobra.Command{
		Use:   "scenario [name]",
		Short: "Runs end-to-end scenarios against a running service",
		Long: `Runs end-to-end scenarios against a running service. Every API response is checked
against the OpenAPI document. Usage:

	myusers scenario --list
	myusers scenario basic_workflow --base-url http://localhost:8000
	myusers scenario --all --grpc-addr localhost:9090
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list {
				for _, name := range scenario.Names() {
					fmt.Fprintln(out, name)
				}
				return nil
			}

			var names []string
			switch {
			case all:
				names = scenario.Names()
			case len(args) == 1:
				names = args
			default:
				return fmt.Errorf("scenario name is required, available scenarios: %s", strings.Join(scenario.Names(), ", "))
			}

			if config.RunID == "" {
				config.RunID = time.Now().UTC().Format("20060102150405.000000")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			var failed []string
			for _, name := range names {
				err := scenario.Run(name, ctx, &config)

				fmt.Fprintln(out, "\n=== Scenario Result ===")
				fmt.Fprintf(out, "Scenario: %s\n", name)
				var skipped *scenario.SkippedError
				if errors.As(err, &skipped) {
					fmt.Fprintf(out, "Status: SKIPPED\nReason: %s\n", skipped.Reason)
					fmt.Fprintln(out, "=====================")
					continue
				}
				if err != nil {
					fmt.Fprintf(out, "Status: FAILED\nError: %v\n", err)
					fmt.Fprintln(out, "=====================")
					var unknown *scenario.UnknownScenarioError
					if errors.As(err, &unknown) {
						return fmt.Errorf("%w, available scenarios: %s", err, strings.Join(scenario.Names(), ", "))
					}
					failed = append(failed, name)
					continue
				}
				fmt.Fprintln(out, "Status: PASSED")
				fmt.Fprintln(out, "=====================")
			}

			if len(failed) > 0 {
				return fmt.Errorf("failed scenarios: %s", strings.Join(failed, ", "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list available scenarios and exit")
	cmd.Flags().BoolVar(&all, "all", false, "run every scenario")
	cmd.Flags().StringVar(&config.BaseURL, "base-url", "http://localhost:8000", "HTTP address of the service")
	cmd.Flags().StringVar(&config.GRPCAddr, "grpc-addr", "", "gRPC health address of the service")
	cmd.Flags().StringVar(&config.RunID, "run-id", "", "suffix of emails and names, defaults to the current time")
	return cmd
}
