// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package savedsearch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/papers-search/pkg/types"
)

// WriteSnapshot saves a record to a YAML file under the same snake_case
// field names the service uses, so ReadSnapshot feeds straight back into
// Decode.
func WriteSnapshot(path string, rec types.SavedSearchRecord) error {
	doc := make(map[string]any, len(rec))
	for k, raw := range rec {
		v, err := decodeAny(raw)
		if err != nil {
			return fmt.Errorf("field %s: %w", k, err)
		}
		doc[k] = plain(v)
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadSnapshot loads a record previously written by WriteSnapshot. Hand
// edited files may use the legacy one-element-array shapes; Decode
// handles them.
func ReadSnapshot(path string) (types.SavedSearchRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	rec := make(types.SavedSearchRecord, len(doc))
	for k, v := range doc {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", k, err)
		}
		rec[k] = raw
	}
	return rec, nil
}

func decodeAny(raw json.RawMessage) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// plain replaces json.Number values with int64 or float64 so YAML writes
// them as numbers rather than quoted strings.
func plain(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		for k, e := range t {
			t[k] = plain(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = plain(e)
		}
		return t
	default:
		return v
	}
}
