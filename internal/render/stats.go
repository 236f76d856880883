// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/papers-search/internal/api"
	"github.com/pdiddy/papers-search/pkg/types"
)

const histogramWidth = 40

// Stats writes one paper's citation statistics. Papers without coverage
// get a single line saying so.
func Stats(w io.Writer, s *types.HandleStats) {
	if !s.HasCoverage() {
		fmt.Fprintln(w, "No citation statistics available.")
		return
	}
	line := func(label string, v *int) {
		if v != nil {
			fmt.Fprintf(w, "%-24s %d\n", label, *v)
		}
	}
	pct := func(label string, v *float64) {
		if v != nil {
			fmt.Fprintf(w, "%-24s %.1f\n", label, *v)
		}
	}
	line("Total citations", s.TotalCitations)
	line("Citations in database", s.InternalCitations)
	line("References in database", s.TotalReferences)
	pct("Citation percentile", s.CitationPercentile)
	pct("Median citer percentile", s.MedianCiterPercentile)

	h := s.CitationsByYear
	if h == nil || len(h.Counts) == 0 {
		return
	}
	peak := 0
	for _, c := range h.Counts {
		peak = max(peak, c)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle(w).Render("Citations by year"))
	for i, c := range h.Counts {
		if i >= len(h.Years) {
			break
		}
		bar := 0
		if peak > 0 {
			bar = (c*histogramWidth + peak - 1) / peak
		}
		fmt.Fprintf(w, "%4d  %-*s %d\n", h.Years[i], histogramWidth, strings.Repeat("#", bar), c)
	}
}

// Journals writes the journal coverage table.
func Journals(w io.Writer, rows []types.JournalStat) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No journal statistics.")
		return
	}
	fmt.Fprintln(w, headerStyle(w).Render(fmt.Sprintf("%-60s  %8s", "Journal or Series", "Items")))
	fmt.Fprintln(w, strings.Repeat("-", 70))
	total := 0
	for _, r := range rows {
		fmt.Fprintf(w, "%-60s  %8d\n", truncate(r.Journal, 60), r.N)
		total += r.N
	}
	fmt.Fprintf(w, "\n%d journals, %d items\n", len(rows), total)
}

// Details writes the paper detail view: statistics, other versions,
// citing papers and references.
func Details(w io.Writer, d *api.Details) {
	fmt.Fprintln(w, headerStyle(w).Render(d.Handle))
	Stats(w, d.Stats)
	paperList(w, "Other versions:", d.Versions)
	paperList(w, "Cited by these papers in the database:", d.CitedBy)
	paperList(w, "References in the database:", d.Cites)
}

func paperList(w io.Writer, title string, papers []types.SearchResult) {
	if len(papers) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle(w).Render(title))
	for _, p := range papers {
		var b strings.Builder
		b.WriteString("  ")
		if y := p.Year(); y != "" {
			b.WriteString(y + " - ")
		}
		if a := p.Authors(); a != "" {
			b.WriteString(a + ". ")
		}
		b.WriteString(p.Title())
		if j := p.Journal(); j != "" {
			b.WriteString(" " + j + ".")
		}
		fmt.Fprintln(w, b.String())
	}
}

// History writes saved-search ledger entries, newest first.
func History(w io.Writer, entries []types.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No saved searches.")
		return
	}
	fmt.Fprintln(w, headerStyle(w).Render(fmt.Sprintf("%-16s  %-16s  %-40s  %s", "Saved", "Handle", "Query", "Link")))
	for _, e := range entries {
		link := e.ShareURL
		if link == "" {
			link = e.Handle
		}
		fmt.Fprintf(w, "%-16s  %-16s  %-40s  %s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"), truncate(e.Handle, 16), truncate(e.Query, 40), link)
	}
}

// HistoryEntry writes one ledger entry, one field per line. Unset optional
// fields are left out.
func HistoryEntry(w io.Writer, e types.HistoryEntry) {
	fmt.Fprintf(w, "Handle:     %s\n", e.Handle)
	fmt.Fprintf(w, "Query:      %s\n", e.Query)
	if e.JournalFilter != "" {
		fmt.Fprintf(w, "Journals:   %s\n", e.JournalFilter)
	}
	if e.MinYear > 0 {
		fmt.Fprintf(w, "From year:  %d\n", e.MinYear)
	}
	fmt.Fprintf(w, "Results:    %d\n", e.ResultCount)
	if e.ShareURL != "" {
		fmt.Fprintf(w, "Link:       %s\n", e.ShareURL)
	}
	fmt.Fprintf(w, "Saved:      %s\n", e.CreatedAt.Local().Format("2006-01-02 15:04"))
}
