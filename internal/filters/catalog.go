// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filters

import "math/bits"

// CategoryID identifies one journal category in the fixed catalog.
type CategoryID string

// Catalog category identifiers, in catalog order.
const (
	Top5            CategoryID = "top5"
	GeneralInterest CategoryID = "general"
	AEJ             CategoryID = "aej"
	TopFieldA       CategoryID = "topA"
	SecondFieldB    CategoryID = "secondB"
	OtherJournals   CategoryID = "other"
	WorkingPapers   CategoryID = "wp"
)

// Category maps a category id to its display label and the label the
// search service expects in journal_filter.
type Category struct {
	ID       CategoryID
	Label    string
	APILabel string
}

var catalog = [...]Category{
	{ID: Top5, Label: "Top 5", APILabel: "Top 5 Journals"},
	{ID: GeneralInterest, Label: "General Interest", APILabel: "General Interest"},
	{ID: AEJ, Label: "AEJs", APILabel: "AEJs"},
	{ID: TopFieldA, Label: "Top Field (A)", APILabel: "Top Field Journals (A)"},
	{ID: SecondFieldB, Label: "Second in Field (B)", APILabel: "Second in Field Journals (B)"},
	{ID: OtherJournals, Label: "Other Journals", APILabel: "Other Journals"},
	{ID: WorkingPapers, Label: "Working Paper Series", APILabel: "Working Paper Series"},
}

// Catalog returns the category catalog in display order.
func Catalog() []Category {
	out := make([]Category, len(catalog))
	copy(out, catalog[:])
	return out
}

// Lookup returns the catalog entry for id.
func Lookup(id CategoryID) (Category, bool) {
	i := index(id)
	if i < 0 {
		return Category{}, false
	}
	return catalog[i], true
}

// ByAPILabel returns the catalog entry whose API label is exactly label.
func ByAPILabel(label string) (Category, bool) {
	for _, c := range catalog {
		if c.APILabel == label {
			return c, true
		}
	}
	return Category{}, false
}

func index(id CategoryID) int {
	for i, c := range catalog {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// CategorySet is a set of catalog categories. Bit i stands for the i-th
// catalog entry, so iteration is always in catalog order regardless of the
// order categories were added. The zero value is the empty set.
type CategorySet uint8

// NewCategorySet returns a set holding ids. Ids outside the catalog are ignored.
func NewCategorySet(ids ...CategoryID) CategorySet {
	var s CategorySet
	for _, id := range ids {
		s = s.Add(id)
	}
	return s
}

// AllCategories returns the set of every catalog category.
func AllCategories() CategorySet {
	return CategorySet(1<<len(catalog) - 1)
}

// Has reports whether id is in the set.
func (s CategorySet) Has(id CategoryID) bool {
	i := index(id)
	return i >= 0 && s&(1<<i) != 0
}

// Add returns s with id added.
func (s CategorySet) Add(id CategoryID) CategorySet {
	if i := index(id); i >= 0 {
		return s | 1<<i
	}
	return s
}

// Remove returns s with id removed.
func (s CategorySet) Remove(id CategoryID) CategorySet {
	if i := index(id); i >= 0 {
		return s &^ (1 << i)
	}
	return s
}

// Toggle returns s with id added if absent and removed if present.
// Unknown ids leave the set unchanged.
func (s CategorySet) Toggle(id CategoryID) CategorySet {
	if s.Has(id) {
		return s.Remove(id)
	}
	return s.Add(id)
}

// Len returns the number of categories in the set.
func (s CategorySet) Len() int { return bits.OnesCount8(uint8(s)) }

// IsEmpty reports whether no category is selected.
func (s CategorySet) IsEmpty() bool { return s == 0 }

// IDs returns the selected ids in catalog order.
func (s CategorySet) IDs() []CategoryID {
	var ids []CategoryID
	for i, c := range catalog {
		if s&(1<<i) != 0 {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// APILabels returns the API labels of the selected categories in catalog order.
func (s CategorySet) APILabels() []string {
	var labels []string
	for i, c := range catalog {
		if s&(1<<i) != 0 {
			labels = append(labels, c.APILabel)
		}
	}
	return labels
}
