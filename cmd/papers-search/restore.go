// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/papers-search/internal/filters"
	"github.com/pdiddy/papers-search/internal/render"
	"github.com/pdiddy/papers-search/internal/savedsearch"
	"github.com/pdiddy/papers-search/internal/session"
	"github.com/pdiddy/papers-search/pkg/types"
)

var restoreCmd = &cobra.Command{
	Use:   "restore <handle|share-url>",
	Short: "Show a saved search",
	Long: heredoc.Doc(`
		Restore loads a saved search by handle or share link and prints its
		filters and the results frozen when it was saved. No new search is run.

		--file reads a snapshot written earlier with --out instead of asking
		the service.
	`),
	Example: heredoc.Doc(`
		papers-search restore 9f2c1ab0
		papers-search restore "http://localhost:5173/?search=9f2c1ab0" --out saved.yaml
		papers-search restore --file saved.yaml --format csl
	`),
	Args: cobra.MaximumNArgs(1),
	RunE: runRestore,
}

func runRestore(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	out, _ := cmd.Flags().GetString("out")
	format, _ := cmd.Flags().GetString("format")

	var (
		f       filters.FilterSet
		results []types.SearchResult
	)
	switch {
	case file != "":
		rec, err := savedsearch.ReadSnapshot(file)
		if err != nil {
			return err
		}
		d, err := savedsearch.Decode(rec)
		if err != nil {
			return fmt.Errorf("decoding %s: %w", file, err)
		}
		f, results = d.Filters, d.Results

	case len(args) == 1:
		client, err := newClient()
		if err != nil {
			return err
		}
		ctrl := session.New(client, session.Options{Logger: logger, ShareBase: viper.GetString("share_base")})
		defer ctrl.Close()
		switch ctrl.Start(cmd.Context(), args[0]) {
		case session.OutcomeApplied:
		case session.OutcomeSkipped:
			return fmt.Errorf("no saved-search handle in %q", args[0])
		default:
			return fmt.Errorf("saved search %s could not be restored", session.ParseHandle(args[0]))
		}
		st := ctrl.State()
		f, results = st.Filters, st.Results

	default:
		return fmt.Errorf("a handle, share link, or --file is required")
	}

	describeFilters(cmd.ErrOrStderr(), f)
	if err := render.Results(cmd.OutOrStdout(), format, results, session.Summarize(f, len(results))); err != nil {
		return err
	}

	if out != "" {
		rec, err := savedsearch.Record(savedsearch.Encode(f, f.MaxResults), results)
		if err != nil {
			return err
		}
		if err := savedsearch.WriteSnapshot(out, rec); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Snapshot written to %s\n", out)
	}
	return nil
}

// describeFilters prints the restored configuration, one setting per line.
func describeFilters(w io.Writer, f filters.FilterSet) {
	fmt.Fprintf(w, "Query:      %s\n", f.TrimmedQuery())
	labels := make([]string, 0, f.Categories.Len())
	for _, id := range f.Categories.IDs() {
		c, _ := filters.Lookup(id)
		labels = append(labels, c.Label)
	}
	if len(labels) == 0 {
		fmt.Fprintln(w, "Categories: all journals")
	} else {
		fmt.Fprintf(w, "Categories: %s\n", strings.Join(labels, ", "))
	}
	if f.HasMinYear() {
		fmt.Fprintf(w, "From year:  %s\n", f.MinYearText())
	}
	for _, kv := range [][2]string{{"Journal:", f.JournalName}, {"Title:", f.Title}, {"Author:", f.Author}} {
		if kv[1] != "" {
			fmt.Fprintf(w, "%-11s %s\n", kv[0], kv[1])
		}
	}
	fmt.Fprintf(w, "Max results: %d\n\n", f.MaxResults)
}

func init() {
	addFormatFlag(restoreCmd)
	restoreCmd.Flags().String("file", "", "read a saved-search snapshot file instead of the service")
	restoreCmd.Flags().String("out", "", "write the restored search to a snapshot file")

	rootCmd.AddCommand(restoreCmd)
}
