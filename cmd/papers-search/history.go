// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/papers-search/internal/history"
	"github.com/pdiddy/papers-search/internal/render"
	"github.com/pdiddy/papers-search/internal/session"
	"github.com/pdiddy/papers-search/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history [handle|share-url]",
	Short: "List searches saved from this machine",
	Long: "History lists searches saved from this machine, newest first. Given a\n" +
		"handle or share link it shows that one entry.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		if len(args) == 1 {
			handle := session.ParseHandle(args[0])
			entry, err := store.Get(cmd.Context(), handle)
			if errors.Is(err, history.ErrNotFound) {
				return fmt.Errorf("no saved search %q in history", handle)
			}
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), entry)
			}
			render.HistoryEntry(cmd.OutOrStdout(), entry)
			return nil
		}

		entries, err := store.List(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if asJSON {
			if entries == nil {
				entries = []types.HistoryEntry{}
			}
			return writeJSON(cmd.OutOrStdout(), entries)
		}
		render.History(cmd.OutOrStdout(), entries)
		return nil
	},
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	historyCmd.Flags().Int("limit", history.DefaultListLimit, "number of entries to show")
	historyCmd.Flags().Bool("json", false, "output as JSON")
	rootCmd.AddCommand(historyCmd)
}
