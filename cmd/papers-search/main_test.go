// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/papers-search/internal/filters"
	"github.com/pdiddy/papers-search/internal/history"
	"github.com/pdiddy/papers-search/pkg/types"
)

func filterCmd(t *testing.T, flags ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addFilterFlags(cmd)
	require.NoError(t, cmd.ParseFlags(flags))
	return cmd
}

func TestFiltersFromFlagsDefaults(t *testing.T) {
	f, err := filtersFromFlags(filterCmd(t), []string{"wage", "inequality"})
	require.NoError(t, err)

	want := filters.Defaults()
	want.Query = "wage inequality"
	assert.Equal(t, want, f)
}

func TestFiltersFromFlags(t *testing.T) {
	f, err := filtersFromFlags(filterCmd(t,
		"--category", "wp", "--category", "top5",
		"--min-year", "2015", "--author", "Card", "-n", "50",
	), []string{"minimum wage"})
	require.NoError(t, err)

	assert.Equal(t, filters.NewCategorySet(filters.Top5, filters.WorkingPapers), f.Categories)
	assert.Equal(t, 2015, f.MinYear)
	assert.Equal(t, "Card", f.Author)
	assert.Equal(t, 50, f.MaxResults)

	req := filters.BuildRequest(f)
	require.NotNil(t, req.JournalFilter)
	assert.Equal(t, "Top 5 Journals,Working Paper Series", *req.JournalFilter)
}

func TestFiltersFromFlagsErrors(t *testing.T) {
	tests := []struct {
		name  string
		flags []string
	}{
		{"unknown category", []string{"--category", "top10"}},
		{"conflicting categories", []string{"--category", "aej", "--no-category"}},
		{"bad year", []string{"--min-year", "recent"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := filtersFromFlags(filterCmd(t, tc.flags...), []string{"q"})
			assert.Error(t, err)
		})
	}
}

func TestFiltersFromFlagsNoCategoryAndClamp(t *testing.T) {
	f, err := filtersFromFlags(filterCmd(t, "--no-category", "--max-results", "9000"), []string{"q"})
	require.NoError(t, err)
	assert.True(t, f.Categories.IsEmpty())
	assert.Equal(t, filters.MaxMaxResults, f.MaxResults)
	assert.Nil(t, filters.BuildRequest(f).JournalFilter)
}

// fakeService serves search, save and load from memory.
func fakeService(t *testing.T) *httptest.Server {
	t.Helper()
	saved := map[string][]byte{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /search", func(w http.ResponseWriter, r *http.Request) {
		var req types.SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fmt.Fprintf(w, `[{"handle":"p1","title":"About %s","similarity_score":0.9}]`, req.Query)
	})
	mux.HandleFunc("POST /search/save", func(w http.ResponseWriter, r *http.Request) {
		var rec map[string]any
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rec["results"] = []map[string]any{{"handle": "p1", "title": "Frozen"}}
		data, _ := json.Marshal(rec)
		saved["h1"] = data
		fmt.Fprint(w, `{"hash":"h1","results":[{"handle":"p1"}]}`)
	})
	mux.HandleFunc("GET /search/{hash}", func(w http.ResponseWriter, r *http.Request) {
		data, ok := saved[r.PathValue("hash")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestSearchSaveAndRestore(t *testing.T) {
	ts := fakeService(t)
	dir := t.TempDir()
	viper.Set("api_base", ts.URL)
	viper.Set("share_base", "https://papers.example.org/")
	viper.Set("history_db", filepath.Join(dir, "history.db"))

	var copied string
	origClipboard := writeClipboard
	writeClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { writeClipboard = origClipboard })

	out, errOut, err := execute(t, "search", "--format", "json", "--save", "--copy", "--min-year", "2015", "wage", "inequality")
	require.NoError(t, err)

	var results []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "About wage inequality", results[0]["title"])
	assert.Contains(t, errOut, "Share link: https://papers.example.org/?search=h1")
	assert.Equal(t, "https://papers.example.org/?search=h1", copied)

	store, err := history.Open(types.HistoryConfig{Path: filepath.Join(dir, "history.db")})
	require.NoError(t, err)
	entry, err := store.Get(context.Background(), "h1")
	require.NoError(t, err)
	store.Close()
	assert.Equal(t, "wage inequality", entry.Query)
	assert.Equal(t, 2015, entry.MinYear)
	assert.Equal(t, 1, entry.ResultCount)

	snapshot := filepath.Join(dir, "saved.yaml")
	out, errOut, err = execute(t, "restore", "--format", "json", "--out", snapshot, "https://papers.example.org/?search=h1")
	require.NoError(t, err)
	assert.Contains(t, out, "Frozen")
	assert.Contains(t, errOut, "Query:      wage inequality")
	assert.Contains(t, errOut, "From year:  2015")

	out, _, err = execute(t, "restore", "--file", snapshot, "--out", "", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "Frozen")

	_, _, err = execute(t, "restore", "--file", "", "missing")
	assert.ErrorContains(t, err, "could not be restored")

	_, _, err = execute(t, "restore", "--file", "", "https://papers.example.org/?tab=saved")
	assert.ErrorContains(t, err, "no saved-search handle")

	out, _, err = execute(t, "history", "--json", "https://papers.example.org/?search=h1")
	require.NoError(t, err)
	var one types.HistoryEntry
	require.NoError(t, json.Unmarshal([]byte(out), &one))
	assert.Equal(t, "h1", one.Handle)
	assert.Equal(t, "https://papers.example.org/?search=h1", one.ShareURL)

	out, _, err = execute(t, "history", "--json=false", "h1")
	require.NoError(t, err)
	assert.Contains(t, out, "Query:      wage inequality")

	_, _, err = execute(t, "history", "--json=false", "nope")
	assert.ErrorContains(t, err, `no saved search "nope" in history`)
}
