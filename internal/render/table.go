// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render writes search results, saved-search history, and
// statistics for the terminal and for other tools.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/papers-search/internal/session"
	"github.com/pdiddy/papers-search/pkg/types"
)

// Formats accepted by Results.
const (
	FormatTable  = "table"
	FormatJSON   = "json"
	FormatCSL    = "csl"
	FormatBibTeX = "bibtex"
)

// Formats lists the output formats in help order.
var Formats = []string{FormatTable, FormatJSON, FormatCSL, FormatBibTeX}

// Results writes results in the named format. The summary is only used by
// the table format.
func Results(w io.Writer, format string, results []types.SearchResult, summary session.Summary) error {
	switch format {
	case "", FormatTable:
		Table(w, results, summary)
		return nil
	case FormatJSON:
		return JSON(w, results)
	case FormatCSL:
		return CSL(w, results)
	case FormatBibTeX:
		return BibTeX(w, results)
	default:
		return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

func headerStyle(w io.Writer) lipgloss.Style {
	return lipgloss.NewRenderer(w).NewStyle().Bold(true)
}

func mutedStyle(w io.Writer) lipgloss.Style {
	return lipgloss.NewRenderer(w).NewStyle().Faint(true)
}

// Table writes results as a ranked table followed by the summary line.
func Table(w io.Writer, results []types.SearchResult, summary session.Summary) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	header := fmt.Sprintf("%-4s  %-56s  %-24s  %-28s  %-4s  %s",
		"Rank", "Title", "Authors", "Journal", "Year", "Score")
	fmt.Fprintln(w, headerStyle(w).Render(header))
	fmt.Fprintln(w, strings.Repeat("-", 132))

	for i, r := range results {
		score := ""
		if s, ok := r.SimilarityScore(); ok {
			score = fmt.Sprintf("%.3f", s)
		}
		fmt.Fprintf(w, "%-4d  %-56s  %-24s  %-28s  %-4s  %s\n",
			i+1, truncate(r.Title(), 56), truncate(r.Authors(), 24),
			truncate(r.Journal(), 28), r.Year(), score)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, mutedStyle(w).Render(summary.String()))
}

// JSON writes results as indented JSON.
func JSON(w io.Writer, results []types.SearchResult) error {
	if results == nil {
		results = []types.SearchResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// BibTeX writes the BibTeX entry of every result that has one, separated
// by blank lines.
func BibTeX(w io.Writer, results []types.SearchResult) error {
	n := 0
	for _, r := range results {
		entry := strings.TrimSpace(r.BibTeX())
		if entry == "" {
			continue
		}
		if n > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, entry)
		n++
	}
	if n == 0 {
		fmt.Fprintln(w, "% no BibTeX entries in these results")
	}
	return nil
}

// truncate shortens s to max runes, ending in "..." when cut.
func truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-3]) + "..."
}
