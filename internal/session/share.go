// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"fmt"
	"net/url"
	"strings"
)

// ShareParam is the query parameter that carries a saved-search handle.
const ShareParam = "search"

// ShareURL embeds handle into location as the search parameter. The rest
// of the location (path, other parameters, fragment) is preserved.
func ShareURL(location, handle string) (string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("parsing share location %q: %w", location, err)
	}
	q := u.Query()
	q.Set(ShareParam, handle)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// HandleFromURL returns the saved-search handle carried by location, or ""
// when there is none.
func HandleFromURL(location string) string {
	u, err := url.Parse(strings.TrimSpace(location))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(u.Query().Get(ShareParam))
}

// ParseHandle accepts either a bare handle or a share URL.
func ParseHandle(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "?") || strings.Contains(s, "://") {
		return HandleFromURL(s)
	}
	return s
}
