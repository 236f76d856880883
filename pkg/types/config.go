// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by everything that talks to
// the search service.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "papers-search/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ClientConfig holds settings for the search service client.
type ClientConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the root of the search service (default http://127.0.0.1:8000).
	BaseURL string `json:"api_base" yaml:"api_base"`

	// APIKey is the optional static key sent in the X-API-Key header.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries bounds retries of saved-search save and load calls on
	// 429/503 responses. Zero disables retry and a negative value selects
	// the default. Searches are never retried.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// LookupCacheSize is the number of read-only lookup responses kept in
	// memory (0 disables the cache).
	LookupCacheSize int `json:"lookup_cache_size" yaml:"lookup_cache_size"`
}

// SessionConfig holds settings for a search session.
type SessionConfig struct {
	// ShareBase is the location share links are built on; the saved
	// search handle is added as its "search" query parameter.
	ShareBase string `json:"share_base" yaml:"share_base"`
}

// HistoryConfig holds settings for the local saved-link ledger.
type HistoryConfig struct {
	// Path is the SQLite database file.
	Path string `json:"history_db" yaml:"history_db"`
}
