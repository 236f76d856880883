// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "encoding/json"

// CitationsByYear is a per-year citation histogram. Years and Counts are
// parallel slices.
type CitationsByYear struct {
	Years  []int `json:"years" yaml:"years"`
	Counts []int `json:"counts" yaml:"counts"`
}

// HandleStats holds the precomputed citation statistics for one paper, as
// returned by GET /handlestats. Absent statistics are nil.
type HandleStats struct {
	TotalCitations        *int             `json:"total_citations" yaml:"total_citations"`
	InternalCitations     *int             `json:"internal_citations" yaml:"internal_citations"`
	TotalReferences       *int             `json:"total_references" yaml:"total_references"`
	CitationPercentile    *float64         `json:"citation_percentile" yaml:"citation_percentile"`
	MedianCiterPercentile *float64         `json:"median_citer_percentile" yaml:"median_citer_percentile"`
	CitationsByYear       *CitationsByYear `json:"citations_by_year" yaml:"citations_by_year"`
}

// UnmarshalJSON decodes the statistics. The service may ship
// citations_by_year as a JSON-encoded string; a histogram that fails to
// parse becomes nil instead of failing the whole document.
func (s *HandleStats) UnmarshalJSON(data []byte) error {
	type plain HandleStats
	var aux struct {
		plain
		CitationsByYear json.RawMessage `json:"citations_by_year"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*s = HandleStats(aux.plain)
	s.CitationsByYear = nil
	if inner, ok := EmbeddedJSON(aux.CitationsByYear); ok {
		var h CitationsByYear
		if err := json.Unmarshal(inner, &h); err == nil {
			s.CitationsByYear = &h
		}
	}
	return nil
}

// HasCoverage reports whether there is anything worth displaying: an
// internal citation count, a reference count, or a non-empty histogram.
func (s *HandleStats) HasCoverage() bool {
	if s == nil {
		return false
	}
	return s.InternalCitations != nil ||
		s.TotalReferences != nil ||
		(s.CitationsByYear != nil && len(s.CitationsByYear.Counts) > 0)
}

// JournalStat is one row of GET /stats/journals.
type JournalStat struct {
	Journal string `json:"journal" yaml:"journal"`
	N       int    `json:"n" yaml:"n"`
}

// CitationCounts is the pass-through body of GET /citationcounts.
type CitationCounts = json.RawMessage
