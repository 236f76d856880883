// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/papers-search/internal/render"
	"github.com/pdiddy/papers-search/pkg/types"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database freshness and journal coverage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		client, err := newClient()
		if err != nil {
			return err
		}

		var (
			updated  types.LastUpdated
			journals []types.JournalStat
		)
		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() (err error) {
			updated, err = client.LastUpdated(ctx)
			return err
		})
		g.Go(func() (err error) {
			journals, err = client.JournalStats(ctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				LastUpdated string              `json:"last_updated"`
				Journals    []types.JournalStat `json:"journals"`
			}{updated.LastUpdated, journals})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Database last updated: %s\n\n", updated.LastUpdated)
		render.Journals(cmd.OutOrStdout(), journals)
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("json", false, "output as JSON")
	rootCmd.AddCommand(statsCmd)
}
