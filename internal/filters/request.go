// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filters

import (
	"strings"

	"github.com/pdiddy/papers-search/pkg/types"
)

// BuildRequest converts f into the POST /search payload. It is pure and
// total; callers check HasQuery before submitting.
//
// Selected categories are joined in catalog order, so equal selections
// always serialize identically. An empty selection sends a null
// journal_filter (no filter).
func BuildRequest(f FilterSet) types.SearchRequest {
	return types.SearchRequest{
		Query:         f.TrimmedQuery(),
		MaxK:          f.MaxResults,
		MinYear:       optionalYear(f.MinYear),
		JournalFilter: JournalFilter(f.Categories),
		JournalName:   optionalString(f.JournalName),
		TitleKeyword:  optionalString(f.Title),
		AuthorKeyword: optionalString(f.Author),
	}
}

// JournalFilter returns the comma-joined API labels of s, or nil when s is empty.
func JournalFilter(s CategorySet) *string {
	if s.IsEmpty() {
		return nil
	}
	joined := strings.Join(s.APILabels(), ",")
	return &joined
}

// ParseJournalFilter maps a comma-separated label list back to a category
// set. Tokens are trimmed and matched exactly; unknown labels are dropped.
func ParseJournalFilter(s string) CategorySet {
	var set CategorySet
	for _, tok := range strings.Split(s, ",") {
		if c, ok := ByAPILabel(strings.TrimSpace(tok)); ok {
			set = set.Add(c.ID)
		}
	}
	return set
}

func optionalYear(y int) *int {
	if y <= 0 {
		return nil
	}
	return &y
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
