// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filters holds the canonical representation of everything that
// shapes a search (query text, journal categories, year floor, substring
// filters, result cap) and turns it into the request the search service
// expects.
package filters

import (
	"fmt"
	"strconv"
	"strings"
)

// Result cap bounds.
const (
	DefaultMaxResults = 100
	MinMaxResults     = 1
	MaxMaxResults     = 500
)

// FilterSet is the current search configuration. It is a plain value:
// copies are independent and two FilterSets compare equal with ==.
//
// Empty strings mean "no filter" for the substring fields, and MinYear 0
// means "no lower bound". An empty Categories set also means "no journal
// filter"; it never means "exclude every journal".
type FilterSet struct {
	Query       string
	Categories  CategorySet
	MinYear     int
	JournalName string
	Title       string
	Author      string
	MaxResults  int
}

// DefaultCategories is the selection a fresh session starts with.
func DefaultCategories() CategorySet {
	return NewCategorySet(Top5, GeneralInterest, AEJ, TopFieldA, SecondFieldB)
}

// Defaults returns the FilterSet a new session starts from.
func Defaults() FilterSet {
	return FilterSet{
		Categories: DefaultCategories(),
		MaxResults: DefaultMaxResults,
	}
}

// TrimmedQuery returns the query text without surrounding whitespace.
func (f FilterSet) TrimmedQuery() string {
	return strings.TrimSpace(f.Query)
}

// HasQuery reports whether the query has any non-space text. Submitting a
// FilterSet without one is a no-op.
func (f FilterSet) HasQuery() bool {
	return f.TrimmedQuery() != ""
}

// ToggleCategory adds id if absent and removes it if present.
func (f *FilterSet) ToggleCategory(id CategoryID) {
	f.Categories = f.Categories.Toggle(id)
}

// HasMinYear reports whether a lower year bound is set.
func (f FilterSet) HasMinYear() bool {
	return f.MinYear > 0
}

// MinYearText returns the year floor as display text, or "" when absent.
func (f FilterSet) MinYearText() string {
	if !f.HasMinYear() {
		return ""
	}
	return strconv.Itoa(f.MinYear)
}

// SetMinYearText parses a year typed by the user. Blank input clears the bound.
func (f *FilterSet) SetMinYearText(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		f.MinYear = 0
		return nil
	}
	year, err := ParseYear(s)
	if err != nil {
		return err
	}
	f.MinYear = year
	return nil
}

// SetMaxResults sets the result cap, clamped to [MinMaxResults, MaxMaxResults].
func (f *FilterSet) SetMaxResults(n int) {
	f.MaxResults = ClampMaxResults(n)
}

// ClampMaxResults bounds n to the accepted result cap range.
func ClampMaxResults(n int) int {
	switch {
	case n < MinMaxResults:
		return MinMaxResults
	case n > MaxMaxResults:
		return MaxMaxResults
	default:
		return n
	}
}

// ParseYear parses a positive integer year. Values such as "2015.0" that
// come out of numeric JSON fields are accepted when integral.
func ParseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	if y, err := strconv.Atoi(s); err == nil {
		if y <= 0 {
			return 0, fmt.Errorf("invalid year %q", s)
		}
		return y, nil
	}
	fl, err := strconv.ParseFloat(s, 64)
	if err != nil || fl != float64(int(fl)) || fl <= 0 {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	return int(fl), nil
}
