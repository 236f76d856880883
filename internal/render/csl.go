// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"io"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/papers-search/internal/filters"
	"github.com/pdiddy/papers-search/pkg/types"
)

// CSLItem is a bibliographic entry in CSL-YAML form, readable by Pandoc
// and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	Author         []CSLName `yaml:"author,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Abstract       string    `yaml:"abstract,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	URL            string    `yaml:"URL,omitempty"`
}

// CSLName is a person's name in CSL form.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate is a CSL date using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// CSL writes results as a CSL-YAML list.
func CSL(w io.Writer, results []types.SearchResult) error {
	items := make([]CSLItem, len(results))
	for i, r := range results {
		items[i] = toCSLItem(r)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

func toCSLItem(r types.SearchResult) CSLItem {
	item := CSLItem{
		ID:             r.Handle(),
		Type:           "article-journal",
		Title:          r.Title(),
		ContainerTitle: r.Journal(),
		Abstract:       r.Abstract(),
		URL:            r.URL(),
	}
	if wp, ok := filters.Lookup(filters.WorkingPapers); ok && r.Category() == wp.APILabel {
		item.Type = "report"
	}
	for _, a := range splitAuthors(r.Authors()) {
		item.Author = append(item.Author, parseAuthorName(a))
	}
	if year, err := strconv.Atoi(strings.TrimSpace(r.Year())); err == nil && year > 0 {
		item.Issued = &CSLDate{DateParts: [][]int{{year}}}
	}
	return item
}

// splitAuthors breaks a display author string on semicolons and " and ".
func splitAuthors(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		for _, name := range strings.Split(part, " and ") {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

// parseAuthorName splits a name into CSL family/given parts. "Family,
// Given" is honored; otherwise the last space separates given from family.
// Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	if family, given, ok := strings.Cut(name, ","); ok {
		return CSLName{Family: strings.TrimSpace(family), Given: strings.TrimSpace(given)}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}
