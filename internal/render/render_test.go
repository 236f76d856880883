// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/papers-search/internal/api"
	"github.com/pdiddy/papers-search/internal/session"
	"github.com/pdiddy/papers-search/pkg/types"
)

func sampleResults() []types.SearchResult {
	return []types.SearchResult{
		{
			"handle":           "RePEc:aea:aecrev:v:104:y:2014:i:1:p:1-10",
			"title":            "The Race Between Education and Technology",
			"authors":          "Claudia Goldin and Lawrence Katz",
			"journal":          "American Economic Review",
			"category":         "Top 5 Journals",
			"year":             json.Number("2014"),
			"similarity_score": json.Number("0.91234"),
			"url":              "https://example.org/p1",
			"bib_tex":          "@article{goldin2014,\n  title={The Race}\n}",
		},
		{
			"handle":           "RePEc:nbr:nberwo:12345",
			"title":            "Wage Inequality Revisited",
			"authors":          "Autor, David",
			"category":         "Working Paper Series",
			"similarity_score": 0.5,
		},
	}
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, sampleResults(), session.Summary{Count: 2, MinYear: 2010, HasFilter: true})
	out := buf.String()

	assert.Contains(t, out, "Rank")
	assert.Contains(t, out, "The Race Between Education and Technology")
	assert.Contains(t, out, "0.912")
	assert.Contains(t, out, "0.500")
	assert.Contains(t, out, "2014")
	assert.Contains(t, out, "Showing 2 results from 2010 onward.")
	assert.Less(t, strings.Index(out, "The Race"), strings.Index(out, "Wage Inequality"), "rank order kept")
}

func TestTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, nil, session.Summary{})
	assert.Equal(t, "No results found.\n", buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "a b", truncate("a \n  b", 10))
	assert.Equal(t, "ééééééé...", truncate(strings.Repeat("é", 20), 10))
}

func TestJSONPreservesOrderAndNumbers(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sampleResults()))

	var back []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	require.Len(t, back, 2)
	assert.Equal(t, "RePEc:nbr:nberwo:12345", back[1]["handle"])
	assert.Contains(t, buf.String(), `"similarity_score": 0.91234`)
}

func TestJSONEmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestCSL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSL(&buf, sampleResults()))

	var items []CSLItem
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &items))
	require.Len(t, items, 2)

	assert.Equal(t, "article-journal", items[0].Type)
	assert.Equal(t, "American Economic Review", items[0].ContainerTitle)
	assert.Equal(t, []CSLName{{Given: "Claudia", Family: "Goldin"}, {Given: "Lawrence", Family: "Katz"}}, items[0].Author)
	require.NotNil(t, items[0].Issued)
	assert.Equal(t, [][]int{{2014}}, items[0].Issued.DateParts)

	assert.Equal(t, "report", items[1].Type)
	assert.Equal(t, []CSLName{{Family: "Autor", Given: "David"}}, items[1].Author)
	assert.Nil(t, items[1].Issued)
}

func TestParseAuthorName(t *testing.T) {
	tests := []struct {
		in   string
		want CSLName
	}{
		{"Esther Duflo", CSLName{Given: "Esther", Family: "Duflo"}},
		{"Duflo, Esther", CSLName{Family: "Duflo", Given: "Esther"}},
		{"Plato", CSLName{Literal: "Plato"}},
		{"  ", CSLName{}},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, parseAuthorName(tc.in), tc.in)
	}
}

func TestBibTeX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, BibTeX(&buf, sampleResults()))
	assert.Equal(t, "@article{goldin2014,\n  title={The Race}\n}\n", buf.String())

	buf.Reset()
	require.NoError(t, BibTeX(&buf, sampleResults()[1:]))
	assert.Contains(t, buf.String(), "no BibTeX entries")
}

func TestResultsUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Results(&buf, "xml", sampleResults(), session.Summary{})
	assert.ErrorContains(t, err, `unknown format "xml"`)
}

func intp(n int) *int           { return &n }
func floatp(f float64) *float64 { return &f }

func TestStats(t *testing.T) {
	var buf bytes.Buffer
	Stats(&buf, &types.HandleStats{
		InternalCitations:  intp(12),
		TotalReferences:    intp(30),
		CitationPercentile: floatp(97.4),
		CitationsByYear:    &types.CitationsByYear{Years: []int{2019, 2020}, Counts: []int{2, 4}},
	})
	out := buf.String()

	assert.Contains(t, out, "Citations in database    12")
	assert.Contains(t, out, "References in database   30")
	assert.Contains(t, out, "Citation percentile      97.4")
	assert.NotContains(t, out, "Total citations")
	assert.Contains(t, out, "2019  "+strings.Repeat("#", 20))
	assert.Contains(t, out, "2020  "+strings.Repeat("#", 40)+" 4")
}

func TestStatsWithoutCoverage(t *testing.T) {
	for _, s := range []*types.HandleStats{nil, {TotalCitations: intp(3)}} {
		var buf bytes.Buffer
		Stats(&buf, s)
		assert.Equal(t, "No citation statistics available.\n", buf.String())
	}
}

func TestJournals(t *testing.T) {
	var buf bytes.Buffer
	Journals(&buf, []types.JournalStat{{Journal: "Econometrica", N: 10}, {Journal: "Journal of Finance", N: 5}})
	out := buf.String()
	assert.Contains(t, out, "Journal or Series")
	assert.Contains(t, out, "Econometrica")
	assert.Contains(t, out, "2 journals, 15 items")
}

func TestDetails(t *testing.T) {
	var buf bytes.Buffer
	Details(&buf, &api.Details{
		Handle:   "h1",
		Versions: []types.SearchResult{{"title": "Early draft", "year": "2012", "authors": "A. Smith"}},
		CitedBy:  []types.SearchResult{},
		Cites:    []types.SearchResult{{"title": "Referenced", "journal": "Econometrica"}},
	})
	out := buf.String()
	assert.Contains(t, out, "No citation statistics available.")
	assert.Contains(t, out, "Other versions:\n  2012 - A. Smith. Early draft\n")
	assert.NotContains(t, out, "Cited by")
	assert.Contains(t, out, "  Referenced Econometrica.")
}

func TestHistory(t *testing.T) {
	var buf bytes.Buffer
	History(&buf, []types.HistoryEntry{{
		Handle:    "abc",
		Query:     "minimum wage",
		ShareURL:  "http://localhost:5173/?search=abc",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC),
	}})
	out := buf.String()
	assert.Contains(t, out, "minimum wage")
	assert.Contains(t, out, "http://localhost:5173/?search=abc")

	buf.Reset()
	History(&buf, nil)
	assert.Equal(t, "No saved searches.\n", buf.String())
}

func TestHistoryEntry(t *testing.T) {
	var buf bytes.Buffer
	HistoryEntry(&buf, types.HistoryEntry{
		Handle:        "abc",
		Query:         "minimum wage",
		JournalFilter: "Top 5 Journals,AEJs",
		MinYear:       2012,
		ResultCount:   7,
		CreatedAt:     time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC),
	})
	out := buf.String()
	assert.Contains(t, out, "Handle:     abc\n")
	assert.Contains(t, out, "Journals:   Top 5 Journals,AEJs\n")
	assert.Contains(t, out, "From year:  2012\n")
	assert.Contains(t, out, "Results:    7\n")
	assert.NotContains(t, out, "Link:")
}
