package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/janhq/task-api/internal/domain/tool"
	"github.com/janhq/task-api/internal/infrastructure/openapispec"
)

func newToolsCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Show the tools the chatbot offers the model, derived from the live /openapi.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			descriptors, err := openapispec.NewRemoteSource(opts.baseURL, opts.timeout).Descriptors(cmd.Context())
			if err != nil {
				return err
			}
			tools := tool.BuildManifest(descriptors)

			if asJSON {
				raw, err := json.Marshal(tools)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), raw)
			}
			for _, t := range tools {
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s\n", t.Function.Name, t.Function.Description)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full tool manifest as JSON")
	return cmd
}
