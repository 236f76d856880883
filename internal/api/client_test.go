// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/papers-search/internal/httputil"
	"github.com/pdiddy/papers-search/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

func testClient(t *testing.T, h http.Handler, mutate ...func(*types.ClientConfig)) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	cfg := types.ClientConfig{BaseURL: ts.URL + "/", MaxRetries: 2}
	for _, m := range mutate {
		m(&cfg)
	}
	c, err := New(ts.Client(), cfg, nil)
	require.NoError(t, err)
	return c
}

func strPtr(s string) *string { return &s }

func TestSearchSendsPayloadAndHeaders(t *testing.T) {
	var gotBody map[string]any
	var gotReq *http.Request
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"handle":"a","similarity_score":0.9},{"handle":"b","similarity_score":0.8}]`)
	}), func(cfg *types.ClientConfig) { cfg.APIKey = "k-123" })

	year := 2015
	results, err := c.Search(context.Background(), types.SearchRequest{
		Query:         "wage inequality",
		MaxK:          50,
		MinYear:       &year,
		JournalFilter: strPtr("Top 5 Journals,AEJs"),
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotReq.Method)
	assert.Equal(t, "/search", gotReq.URL.Path)
	assert.Equal(t, "application/json", gotReq.Header.Get("Content-Type"))
	assert.Equal(t, "k-123", gotReq.Header.Get("X-API-Key"))
	assert.Equal(t, DefaultUserAgent, gotReq.Header.Get("User-Agent"))
	assert.NotEmpty(t, gotReq.Header.Get("X-Request-ID"))

	assert.Equal(t, "wage inequality", gotBody["query"])
	assert.Equal(t, float64(50), gotBody["max_k"])
	assert.Equal(t, float64(2015), gotBody["min_year"])
	assert.Equal(t, "Top 5 Journals,AEJs", gotBody["journal_filter"])
	assert.Contains(t, gotBody, "journal_name")
	assert.Nil(t, gotBody["journal_name"])

	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Handle())
	assert.Equal(t, "b", results[1].Handle())
}

func TestSearchWithoutAPIKeyOmitsHeader(t *testing.T) {
	var header string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("X-API-Key")
		fmt.Fprint(w, `[]`)
	}))
	_, err := c.Search(context.Background(), types.SearchRequest{Query: "q", MaxK: 1})
	require.NoError(t, err)
	assert.Empty(t, header)
}

func TestSearchNonArrayIsEmpty(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"detail":"weird"}`)
	}))
	results, err := c.Search(context.Background(), types.SearchRequest{Query: "q", MaxK: 1})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchErrorStatusIsNotRetried(t *testing.T) {
	var calls int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "index rebuilding\n")
	}))

	_, err := c.Search(context.Background(), types.SearchRequest{Query: "q", MaxK: 1})
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	assert.Equal(t, "index rebuilding", se.Body)
	assert.Equal(t, "search: API error 503: index rebuilding", se.Error())
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSearchTransportFailure(t *testing.T) {
	c, err := New(nil, types.ClientConfig{BaseURL: "http://127.0.0.1:1", HTTPConfig: types.HTTPConfig{Timeout: time.Second}}, nil)
	require.NoError(t, err)
	_, err = c.Search(context.Background(), types.SearchRequest{Query: "q", MaxK: 1})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "search: "))
}

func TestSaveSearch(t *testing.T) {
	var calls int32
	var lastBody []byte
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/save", r.URL.Path)
		lastBody, _ = io.ReadAll(r.Body)
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"hash":"abc123","results":[{"handle":"x"}]}`)
	}))

	resp, err := c.SaveSearch(context.Background(), types.SaveRequest{Query: "q", MaxK: 100})
	require.NoError(t, err)
	assert.Equal(t, "abc123", resp.Hash)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "x", resp.Results[0].Handle())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "save retries once on 429")
	assert.JSONEq(t, `{"query":"q","max_k":100,"min_year":null,"journal_filter":null,
		"journal_name":null,"title_keyword":null,"author_keyword":null}`, string(lastBody))
}

func TestSaveSearchWithoutHash(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[]}`)
	}))
	_, err := c.SaveSearch(context.Background(), types.SaveRequest{Query: "q"})
	assert.ErrorContains(t, err, "no hash")
}

func TestLoadSearch(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/abc":
			fmt.Fprint(w, `{"query":["q"],"min_year":"NA","results":[]}`)
		default:
			http.Error(w, "no such search", http.StatusNotFound)
		}
	}))

	rec, err := c.LoadSearch(context.Background(), "abc")
	require.NoError(t, err)
	assert.JSONEq(t, `["q"]`, string(rec["query"]))
	assert.JSONEq(t, `"NA"`, string(rec["min_year"]))

	_, err = c.LoadSearch(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.LoadSearch(context.Background(), "  ")
	assert.ErrorContains(t, err, "empty handle")
}

func TestLoadSearchEscapesHandle(t *testing.T) {
	var rawPath string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawPath = r.URL.EscapedPath()
		fmt.Fprint(w, `{}`)
	}))
	_, err := c.LoadSearch(context.Background(), "a/b c")
	require.NoError(t, err)
	assert.Equal(t, "/search/a%2Fb%20c", rawPath)
}

func TestLastUpdated(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stats/last_updated", r.URL.Path)
		fmt.Fprint(w, `{"last_updated":"2025-11-02"}`)
	}))
	lu, err := c.LastUpdated(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2025-11-02", lu.LastUpdated)
}
