// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package savedsearch maps between a FilterSet plus its results and the
// saved-search record the service persists behind an opaque handle.
//
// Records written by older versions of the service store every scalar
// either bare or wrapped in a one-element array, and may carry "NA" for a
// missing year. Decode normalizes all of that at the boundary; nothing
// past this package sees the legacy shapes.
package savedsearch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/pdiddy/papers-search/internal/filters"
	"github.com/pdiddy/papers-search/pkg/types"
)

// Record field names.
const (
	fieldQuery         = "query"
	fieldMaxK          = "max_k"
	fieldMinYear       = "min_year"
	fieldJournalFilter = "journal_filter"
	fieldJournalName   = "journal_name"
	fieldTitleKeyword  = "title_keyword"
	fieldAuthorKeyword = "author_keyword"
	fieldResults       = "results"
)

// embeddedFields are result keys the service may ship as JSON-encoded
// strings. They are parsed on decode; unparseable blobs become null.
var embeddedFields = []string{"citations_by_year", "handle_stats", "stats"}

// ErrEmptyRecord is returned when a record carries no fields at all.
var ErrEmptyRecord = errors.New("saved search record is empty")

// Decoded is the session state restored from a saved record.
type Decoded struct {
	Filters filters.FilterSet
	Results []types.SearchResult
}

// Encode builds the POST /search/save body for f with the given result cap.
// A missing year is sent as null, never as the "NA" sentinel.
func Encode(f filters.FilterSet, maxResults int) types.SaveRequest {
	req := filters.BuildRequest(f)
	req.MaxK = maxResults
	return types.SaveRequest(req)
}

// Record assembles a saved-search record from a save body and a result
// snapshot, in the shape GET /search/{hash} returns.
func Record(req types.SaveRequest, results []types.SearchResult) (types.SavedSearchRecord, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling save request: %w", err)
	}
	var rec types.SavedSearchRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("building record: %w", err)
	}
	if results == nil {
		results = []types.SearchResult{}
	}
	raw, err := json.Marshal(results)
	if err != nil {
		return nil, fmt.Errorf("marshaling results: %w", err)
	}
	rec[fieldResults] = raw
	return rec, nil
}

// Decode restores the FilterSet and result snapshot from a record.
//
// Missing string fields decode as "". A min_year that is "NA" or falsy
// decodes as absent. journal_filter labels are matched back to categories
// exactly and unknown labels are dropped; a missing journal_filter gives an
// empty selection, not the session defaults. results must be an array to be
// kept.
func Decode(rec types.SavedSearchRecord) (Decoded, error) {
	if len(rec) == 0 {
		return Decoded{}, ErrEmptyRecord
	}

	var d Decoded
	f := &d.Filters

	text := func(field string) (string, error) {
		s, err := scalarText(rec[field])
		if err != nil {
			return "", fmt.Errorf("field %s: %w", field, err)
		}
		return s, nil
	}

	var err error
	if f.Query, err = text(fieldQuery); err != nil {
		return Decoded{}, err
	}
	if f.JournalName, err = text(fieldJournalName); err != nil {
		return Decoded{}, err
	}
	if f.Title, err = text(fieldTitleKeyword); err != nil {
		return Decoded{}, err
	}
	if f.Author, err = text(fieldAuthorKeyword); err != nil {
		return Decoded{}, err
	}

	year, err := text(fieldMinYear)
	if err != nil {
		return Decoded{}, err
	}
	if !falsy(year) {
		if f.MinYear, err = filters.ParseYear(year); err != nil {
			return Decoded{}, fmt.Errorf("field %s: %w", fieldMinYear, err)
		}
	}

	journals, err := listText(rec[fieldJournalFilter])
	if err != nil {
		return Decoded{}, fmt.Errorf("field %s: %w", fieldJournalFilter, err)
	}
	f.Categories = filters.ParseJournalFilter(journals)

	maxK, err := text(fieldMaxK)
	if err != nil {
		return Decoded{}, err
	}
	f.MaxResults = filters.DefaultMaxResults
	if maxK != "" {
		if n, convErr := strconv.Atoi(maxK); convErr == nil {
			f.MaxResults = filters.ClampMaxResults(n)
		}
	}

	d.Results = decodeResults(rec[fieldResults])
	return d, nil
}

// decodeResults keeps results only when they form an array. The array may
// itself arrive JSON-encoded as a string.
func decodeResults(raw json.RawMessage) []types.SearchResult {
	inner, ok := types.EmbeddedJSON(raw)
	if !ok {
		return []types.SearchResult{}
	}
	results, err := types.DecodeResults(inner)
	if err != nil {
		return []types.SearchResult{}
	}
	for _, r := range results {
		normalizeEmbedded(r)
	}
	return results
}

// normalizeEmbedded parses string-encoded statistics blobs in place.
func normalizeEmbedded(r types.SearchResult) {
	for _, key := range embeddedFields {
		s, ok := r[key].(string)
		if !ok {
			continue
		}
		inner, ok := types.EmbeddedJSON(mustQuote(s))
		if !ok {
			r[key] = nil
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(inner))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			r[key] = nil
			continue
		}
		r[key] = v
	}
}

func mustQuote(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}
