// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/pdiddy/papers-search/internal/api"
	"github.com/pdiddy/papers-search/internal/render"
)

var detailsCmd = &cobra.Command{
	Use:   "details <paper-handle>",
	Short: "Show versions, citations and references of one paper",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		client, err := newClient()
		if err != nil {
			return err
		}
		d, err := client.FetchDetails(cmd.Context(), args[0], limit)
		if err != nil {
			return err
		}
		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(d)
		}
		render.Details(cmd.OutOrStdout(), d)
		return nil
	},
}

func init() {
	detailsCmd.Flags().Int("limit", api.DefaultLookupLimit, "maximum citing and cited papers")
	detailsCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(detailsCmd)
}
