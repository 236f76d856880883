// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/pdiddy/papers-search/pkg/types"
)

// DefaultLookupLimit is the page size for cites and cited-by lookups.
const DefaultLookupLimit = 50

// Versions lists other versions of the paper (GET /versions).
func (c *Client) Versions(ctx context.Context, handle string) ([]types.SearchResult, error) {
	return c.papers(ctx, "versions", "/versions", url.Values{"handle": {handle}})
}

// CitedBy lists papers in the database citing handle (GET /citedby).
func (c *Client) CitedBy(ctx context.Context, handle string, limit int) ([]types.SearchResult, error) {
	return c.papers(ctx, "cited by", "/citedby", limitQuery(handle, limit))
}

// Cites lists papers in the database that handle references (GET /cites).
func (c *Client) Cites(ctx context.Context, handle string, limit int) ([]types.SearchResult, error) {
	return c.papers(ctx, "cites", "/cites", limitQuery(handle, limit))
}

// CitationCounts returns the raw citation count document (GET /citationcounts).
func (c *Client) CitationCounts(ctx context.Context, handle string) (types.CitationCounts, error) {
	body, err := c.lookup(ctx, "citation counts", "/citationcounts", url.Values{"handle": {handle}})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// HandleStats returns citation statistics for one paper (GET /handlestats).
// A null body yields nil stats.
func (c *Client) HandleStats(ctx context.Context, handle string) (*types.HandleStats, error) {
	body, err := c.lookup(ctx, "handle stats", "/handlestats", url.Values{"handle": {handle}})
	if err != nil {
		return nil, err
	}
	var stats *types.HandleStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("parsing handle stats: %w", err)
	}
	return stats, nil
}

// JournalStats returns item counts per journal (GET /stats/journals),
// dropping rows without a journal name and sorting by name.
func (c *Client) JournalStats(ctx context.Context) ([]types.JournalStat, error) {
	body, err := c.lookup(ctx, "journal stats", "/stats/journals", nil)
	if err != nil {
		return nil, err
	}
	var rows []types.JournalStat
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("parsing journal stats: %w", err)
	}

	out := rows[:0]
	for _, r := range rows {
		if r.Journal != "" {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Journal < out[j].Journal })
	return out, nil
}

func (c *Client) papers(ctx context.Context, op, path string, query url.Values) ([]types.SearchResult, error) {
	body, err := c.lookup(ctx, op, path, query)
	if err != nil {
		return nil, err
	}
	results, err := types.DecodeResults(body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", op, err)
	}
	return results, nil
}

// lookup performs a read-only GET, serving repeated calls from the cache
// when one is configured. Failures are never cached.
func (c *Client) lookup(ctx context.Context, op, path string, query url.Values) ([]byte, error) {
	key := path + "?" + query.Encode()
	if c.cache != nil {
		if body, ok := c.cache.Get(key); ok {
			return body, nil
		}
	}
	body, err := c.send(ctx, op, http.MethodGet, path, query, nil, false)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.Add(key, body)
	}
	return body, nil
}

func limitQuery(handle string, limit int) url.Values {
	if limit <= 0 {
		limit = DefaultLookupLimit
	}
	return url.Values{"handle": {handle}, "limit": {strconv.Itoa(limit)}}
}
