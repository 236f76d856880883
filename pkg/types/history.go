// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HistoryEntry is one saved search recorded in the local ledger.
type HistoryEntry struct {
	Handle        string    `json:"handle" yaml:"handle"`
	Query         string    `json:"query" yaml:"query"`
	JournalFilter string    `json:"journal_filter,omitempty" yaml:"journal_filter,omitempty"`
	MinYear       int       `json:"min_year,omitempty" yaml:"min_year,omitempty"`
	ShareURL      string    `json:"share_url,omitempty" yaml:"share_url,omitempty"`
	ResultCount   int       `json:"result_count" yaml:"result_count"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
}
