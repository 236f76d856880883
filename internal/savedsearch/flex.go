// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package savedsearch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// unwrap normalizes a legacy field: a one-element array becomes its sole
// element and an empty array or missing value becomes nil. Longer arrays
// keep their first element.
func unwrap(raw json.RawMessage) (json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return raw, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, err
	}
	if len(elems) == 0 {
		return nil, nil
	}
	return bytes.TrimSpace(elems[0]), nil
}

// scalarText reads a field as text. Strings are returned verbatim, numbers
// in their literal form, booleans as "true"/"false"; missing and null
// values return "". Objects and nested arrays are rejected.
func scalarText(raw json.RawMessage) (string, error) {
	v, err := unwrap(raw)
	if err != nil {
		return "", err
	}
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return "", nil
	}
	switch v[0] {
	case '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", err
		}
		return s, nil
	case '{', '[':
		return "", fmt.Errorf("expected a scalar, got %.20s", v)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(v, &b); err != nil {
			return "", err
		}
		return strconv.FormatBool(b), nil
	default:
		var n json.Number
		if err := json.Unmarshal(v, &n); err != nil {
			return "", err
		}
		return n.String(), nil
	}
}

// listText reads a field holding comma-separated labels. An array of any
// length is read element by element and joined with commas.
func listText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return scalarText(raw)
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return "", err
	}
	parts := make([]string, 0, len(elems))
	for _, e := range elems {
		s, err := scalarText(e)
		if err != nil {
			return "", err
		}
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ","), nil
}

// falsy mirrors the loose truthiness saved records were written with:
// empty text, zero, false, and the legacy "NA" sentinel all mean "unset".
func falsy(s string) bool {
	switch s {
	case "", "0", "false", "NA":
		return true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == 0 {
		return true
	}
	return false
}
