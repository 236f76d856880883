// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the wire and data structures shared by the
// papers-search client: search and save payloads, ranked results, saved
// search records, statistics lookups, and configuration.
package types

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// SearchRequest is the body of POST /search. Nil pointers encode as JSON
// null, which the ranking service reads as "no constraint". A request is
// built fresh for every submit and never mutated afterwards.
type SearchRequest struct {
	Query         string  `json:"query"`
	MaxK          int     `json:"max_k"`
	MinYear       *int    `json:"min_year"`
	JournalFilter *string `json:"journal_filter"`
	JournalName   *string `json:"journal_name"`
	TitleKeyword  *string `json:"title_keyword"`
	AuthorKeyword *string `json:"author_keyword"`
}

// SaveRequest is the body of POST /search/save. It carries the same fields
// as SearchRequest under the same snake_case keys.
type SaveRequest SearchRequest

// SaveResponse is returned by POST /search/save.
type SaveResponse struct {
	// Hash is the opaque saved-search handle.
	Hash string `json:"hash"`

	// Results is the frozen result snapshot stored with the record.
	Results []SearchResult `json:"results"`
}

// SavedSearchRecord is a persisted search as returned by GET /search/{hash}.
// Values are kept raw because legacy records store scalars either bare or
// wrapped in one-element arrays; the savedsearch package normalizes them.
type SavedSearchRecord map[string]json.RawMessage

// LastUpdated is returned by GET /stats/last_updated.
type LastUpdated struct {
	// LastUpdated is the database refresh date in YYYY-MM-DD form.
	LastUpdated string `json:"last_updated" yaml:"last_updated"`
}

// SearchResult is one ranked paper. The client only reads a handful of
// display fields; everything else is passed through untouched, so results
// are kept as decoded JSON objects. Numbers are json.Number to survive a
// decode/encode cycle without reformatting.
type SearchResult map[string]any

// Handle returns the paper's stable identifier. Older payloads spell the
// key "Handle".
func (r SearchResult) Handle() string {
	if h := r.String("handle"); h != "" {
		return h
	}
	return r.String("Handle")
}

// Title returns the paper title.
func (r SearchResult) Title() string { return r.String("title") }

// Authors returns the display author string.
func (r SearchResult) Authors() string { return r.String("authors") }

// Journal returns the journal or series name.
func (r SearchResult) Journal() string { return r.String("journal") }

// Category returns the journal category label assigned by the service.
func (r SearchResult) Category() string { return r.String("category") }

// Year returns the publication year as text, or "" when unknown.
func (r SearchResult) Year() string { return r.String("year") }

// URL returns the link to the paper.
func (r SearchResult) URL() string { return r.String("url") }

// Abstract returns the abstract, if any.
func (r SearchResult) Abstract() string { return r.String("abstract") }

// BibTeX returns the BibTeX entry, if any.
func (r SearchResult) BibTeX() string { return r.String("bib_tex") }

// SimilarityScore returns the similarity score and whether it was present
// and numeric.
func (r SearchResult) SimilarityScore() (float64, bool) {
	switch v := r["similarity_score"].(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// String renders the value under key as text. Missing and null values
// render as "".
func (r SearchResult) String(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// DecodeResults parses a JSON document into an ordered result list. A
// document that is not an array yields an empty list; array elements that
// are not objects are skipped.
func DecodeResults(data []byte) ([]SearchResult, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return ResultsFrom(v), nil
}

// ResultsFrom converts an already-decoded JSON value into a result list
// using the same rules as DecodeResults.
func ResultsFrom(v any) []SearchResult {
	items, ok := v.([]any)
	if !ok {
		return []SearchResult{}
	}
	out := make([]SearchResult, 0, len(items))
	for _, item := range items {
		switch m := item.(type) {
		case map[string]any:
			out = append(out, SearchResult(m))
		case SearchResult:
			out = append(out, m)
		}
	}
	return out
}

// EmbeddedJSON unwraps a value that may hold a JSON document either inline
// or encoded as a string. It returns the inline document and true, or nil
// and false when the value is null or the embedded text is not valid JSON.
func EmbeddedJSON(raw json.RawMessage) (json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, false
	}
	if raw[0] != '"' {
		return raw, json.Valid(raw)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false
	}
	inner := bytes.TrimSpace([]byte(s))
	if len(inner) == 0 || !json.Valid(inner) {
		return nil, false
	}
	return inner, true
}
