// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/papers-search/internal/filters"
	"github.com/pdiddy/papers-search/internal/history"
	"github.com/pdiddy/papers-search/internal/render"
	"github.com/pdiddy/papers-search/internal/session"
	"github.com/pdiddy/papers-search/pkg/types"
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Run a ranked search",
	Long: heredoc.Doc(`
		Search ranks papers by similarity to the query. By default the Top 5,
		General Interest, AEJ, Top Field (A) and Second in Field (B) categories
		are searched; --category replaces that selection and --no-category
		searches every journal.

		With --save the search is stored by the service and a share link is
		printed (and recorded in the local history).
	`),
	Example: heredoc.Doc(`
		papers-search search wage inequality
		papers-search search --min-year 2015 --category top5 --category aej "minimum wage"
		papers-search search --no-category --author Card --format bibtex minimum wage
		papers-search search --save --copy "returns to schooling"
	`),
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	f, err := filtersFromFlags(cmd, args)
	if err != nil {
		return err
	}
	if !f.HasQuery() {
		return fmt.Errorf("a search query is required")
	}
	format, _ := cmd.Flags().GetString("format")
	save, _ := cmd.Flags().GetBool("save")
	copyLink, _ := cmd.Flags().GetBool("copy")

	client, err := newClient()
	if err != nil {
		return err
	}

	opts := session.Options{Logger: logger, ShareBase: viper.GetString("share_base")}
	if save {
		store, err := openHistory()
		if err != nil {
			logger.Warn("history unavailable", "err", err)
		} else {
			defer store.Close()
			opts.OnSaved = recordSaved(cmd.Context(), store)
		}
	}

	ctrl := session.New(client, opts)
	defer ctrl.Close()
	ctrl.Update(func(fs *filters.FilterSet) { *fs = f })

	if ctrl.Submit(cmd.Context()) == session.OutcomeFailed {
		return errors.New(ctrl.State().ErrorMessage)
	}
	st := ctrl.State()
	if err := render.Results(cmd.OutOrStdout(), format, st.Results, st.Summary); err != nil {
		return err
	}

	if !save {
		return nil
	}
	link, err := ctrl.Save(cmd.Context())
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Could not save this search.")
		return nil
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Saved as %s\n", link.Handle)
	if link.ShareURL != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Share link: %s\n", link.ShareURL)
	}
	if copyLink && link.ShareURL != "" {
		if err := writeClipboard(link.ShareURL); err != nil {
			logger.Warn("copying share link", "err", err)
		} else {
			fmt.Fprintln(cmd.ErrOrStderr(), "Link copied")
		}
	}
	return nil
}

// recordSaved returns a save hook that writes each saved search to the
// history ledger. Ledger failures are logged, never returned.
func recordSaved(ctx context.Context, store *history.Store) func(session.SavedLink) {
	return func(link session.SavedLink) {
		e := types.HistoryEntry{
			Handle:      link.Handle,
			Query:       link.Request.Query,
			ShareURL:    link.ShareURL,
			ResultCount: link.Results,
		}
		if link.Request.JournalFilter != nil {
			e.JournalFilter = *link.Request.JournalFilter
		}
		if link.Request.MinYear != nil {
			e.MinYear = *link.Request.MinYear
		}
		if err := store.Record(ctx, e); err != nil {
			logger.Warn("recording history", "handle", link.Handle, "err", err)
		}
	}
}

// addFilterFlags registers the flags that shape a FilterSet.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("category", "c", nil, "journal category id, repeatable (see 'papers-search categories')")
	cmd.Flags().Bool("no-category", false, "search all journals (empty category selection)")
	cmd.Flags().String("min-year", "", "earliest publication year")
	cmd.Flags().String("journal", "", "journal name contains")
	cmd.Flags().String("title", "", "title contains")
	cmd.Flags().String("author", "", "author contains")
	cmd.Flags().IntP("max-results", "n", filters.DefaultMaxResults,
		fmt.Sprintf("maximum results (%d-%d)", filters.MinMaxResults, filters.MaxMaxResults))
}

// filtersFromFlags builds a FilterSet from the session defaults, the query
// arguments, and the filter flags.
func filtersFromFlags(cmd *cobra.Command, args []string) (filters.FilterSet, error) {
	f := filters.Defaults()
	f.Query = strings.Join(args, " ")

	noCategory, _ := cmd.Flags().GetBool("no-category")
	ids, _ := cmd.Flags().GetStringSlice("category")
	switch {
	case noCategory && len(ids) > 0:
		return f, fmt.Errorf("--category and --no-category are mutually exclusive")
	case noCategory:
		f.Categories = 0
	case len(ids) > 0:
		var set filters.CategorySet
		for _, id := range ids {
			cid := filters.CategoryID(strings.TrimSpace(id))
			if _, ok := filters.Lookup(cid); !ok {
				return f, fmt.Errorf("unknown category %q", id)
			}
			set = set.Add(cid)
		}
		f.Categories = set
	}

	minYear, _ := cmd.Flags().GetString("min-year")
	if err := f.SetMinYearText(minYear); err != nil {
		return f, fmt.Errorf("--min-year: %w", err)
	}
	f.JournalName, _ = cmd.Flags().GetString("journal")
	f.Title, _ = cmd.Flags().GetString("title")
	f.Author, _ = cmd.Flags().GetString("author")

	maxResults, _ := cmd.Flags().GetInt("max-results")
	if maxResults < filters.MinMaxResults || maxResults > filters.MaxMaxResults {
		logger.Warn("max results out of range, clamping", "max_results", maxResults)
	}
	f.SetMaxResults(maxResults)
	return f, nil
}

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", render.FormatTable,
		"output format: "+strings.Join(render.Formats, ", "))
}

func init() {
	addFilterFlags(searchCmd)
	addFormatFlag(searchCmd)
	searchCmd.Flags().Bool("save", false, "save the search and print a share link")
	searchCmd.Flags().Bool("copy", false, "with --save, copy the share link to the clipboard")

	rootCmd.AddCommand(searchCmd)
}
