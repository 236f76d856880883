// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api is the HTTP client for the paper search service: ranked
// search, saved-search save and load, and the read-only lookups behind the
// paper detail and statistics views.
//
// Every call returns a *StatusError for non-2xx responses. Searches are
// never retried; saved-search save and load retry a bounded number of
// times on 429 and 503.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/pdiddy/papers-search/internal/httputil"
	"github.com/pdiddy/papers-search/pkg/types"
)

// Defaults applied by New for zero config values.
const (
	DefaultBaseURL   = "http://127.0.0.1:8000"
	DefaultUserAgent = "papers-search/0.1"
	DefaultTimeout   = 60 * time.Second

	apiKeyHeader    = "X-API-Key"
	requestIDHeader = "X-Request-ID"

	// maxErrorBody caps how much of an error response is kept.
	maxErrorBody = 4 << 10
)

// Client calls the search service. It is safe for concurrent use.
type Client struct {
	http    *http.Client
	cfg     types.ClientConfig
	baseURL string
	cache   *lru.Cache[string, []byte]
	log     *slog.Logger
}

// New returns a client for cfg. A nil httpClient gets one with cfg.Timeout;
// a nil logger discards output.
func New(httpClient *http.Client, cfg types.ClientConfig, logger *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c := &Client{
		http:    httpClient,
		cfg:     cfg,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		log:     logger,
	}
	if cfg.LookupCacheSize > 0 {
		cache, err := lru.New[string, []byte](cfg.LookupCacheSize)
		if err != nil {
			return nil, fmt.Errorf("creating lookup cache: %w", err)
		}
		c.cache = cache
	}
	return c, nil
}

// Search runs a ranked search (POST /search). A response that is not a
// JSON array yields an empty result list.
func (c *Client) Search(ctx context.Context, req types.SearchRequest) ([]types.SearchResult, error) {
	body, err := c.send(ctx, "search", http.MethodPost, "/search", nil, req, false)
	if err != nil {
		return nil, err
	}
	results, err := types.DecodeResults(body)
	if err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}
	return results, nil
}

// SaveSearch persists a search (POST /search/save) and returns its handle.
func (c *Client) SaveSearch(ctx context.Context, req types.SaveRequest) (types.SaveResponse, error) {
	body, err := c.send(ctx, "save search", http.MethodPost, "/search/save", nil, req, true)
	if err != nil {
		return types.SaveResponse{}, err
	}

	var raw struct {
		Hash    string          `json:"hash"`
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return types.SaveResponse{}, fmt.Errorf("parsing save response: %w", err)
	}
	if raw.Hash == "" {
		return types.SaveResponse{}, fmt.Errorf("save response has no hash")
	}

	resp := types.SaveResponse{Hash: raw.Hash, Results: []types.SearchResult{}}
	if len(raw.Results) > 0 {
		if results, err := types.DecodeResults(raw.Results); err == nil {
			resp.Results = results
		}
	}
	return resp, nil
}

// LoadSearch fetches a saved search record (GET /search/{hash}). An
// unknown handle returns an error matching ErrNotFound.
func (c *Client) LoadSearch(ctx context.Context, hash string) (types.SavedSearchRecord, error) {
	if strings.TrimSpace(hash) == "" {
		return nil, fmt.Errorf("load search: empty handle")
	}
	body, err := c.send(ctx, "load search", http.MethodGet, "/search/"+url.PathEscape(hash), nil, nil, true)
	if err != nil {
		return nil, err
	}
	var rec types.SavedSearchRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("parsing saved search: %w", err)
	}
	return rec, nil
}

// LastUpdated returns the date the database was last refreshed.
func (c *Client) LastUpdated(ctx context.Context) (types.LastUpdated, error) {
	var out types.LastUpdated
	body, err := c.send(ctx, "last updated", http.MethodGet, "/stats/last_updated", nil, nil, false)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("parsing last_updated: %w", err)
	}
	return out, nil
}

// send performs one call and returns the response body of a 2xx reply.
// A non-nil payload is sent as a JSON body.
func (c *Client) send(ctx context.Context, op, method, path string, query url.Values, payload any, retry bool) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: encoding request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("%s: creating request: %w", op, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.APIKey != "" {
		req.Header.Set(apiKeyHeader, c.cfg.APIKey)
	}

	var resp *http.Response
	if retry {
		resp, err = httputil.DoWithRetry(ctx, c.http, req, c.cfg.MaxRetries)
	} else {
		resp, err = c.http.Do(req)
	}
	if err != nil {
		c.log.Debug("request failed", "op", op, "request_id", requestID, "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.Debug("request rejected", "op", op, "request_id", requestID, "status", resp.StatusCode)
		return nil, &StatusError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(text)),
			RequestID:  requestID,
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: reading response: %w", op, err)
	}
	return data, nil
}
