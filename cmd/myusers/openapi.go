package main

import (
	"fmt"
	"os"
	"path/filepath"

	"myusers/handlers"

	"github.com/spf13/cobra"
)

func newOpenAPICmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Writes the OpenAPI document of the HTTP API",
		Long: `Writes the OpenAPI document of the HTTP API as JSON. Usage:

	myusers openapi --out api/openapi.json
	myusers openapi --out -
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := handlers.MarshalOpenAPI()
			if err != nil {
				return err
			}

			if out == "-" {
				_, err := cmd.OutOrStdout().Write(doc)
				return err
			}

			if dir := filepath.Dir(out); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("cant create directory %s: %w", dir, err)
				}
			}
			if err := os.WriteFile(out, doc, 0o644); err != nil {
				return fmt.Errorf("cant write %s: %w", out, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "openapi.json", `output file, "-" for stdout`)
	return cmd
}
