package store

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Document is a schemaless JSON object.
type Document map[string]any

// Decode converts doc into v through its JSON form.
func Decode(doc Document, v any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

// Encode converts v into a Document through its JSON form.
func Encode(v any) (Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal value: %w", err)
	}
	doc := Document{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return doc, nil
}

// Clone returns a deep copy of doc.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return cloneValue(map[string]any(d)).(map[string]any)
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Document:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	default:
		return v
	}
}

// Has reports whether key is present.
func (d Document) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// String returns the value at key rendered as a string. Numbers and
// booleans are formatted; anything else yields "".
func (d Document) String(key string) string {
	return AsString(d[key])
}

// Int returns the value at key as an int when it is numeric or a numeric string.
func (d Document) Int(key string) (int, bool) {
	return AsInt(d[key])
}

// IntOr returns Int(key) or def.
func (d Document) IntOr(key string, def int) int {
	if n, ok := d.Int(key); ok {
		return n
	}
	return def
}

// Bool returns true only for a stored boolean true.
func (d Document) Bool(key string) bool {
	b, _ := d[key].(bool)
	return b
}

// Map returns the nested object at key or nil.
func (d Document) Map(key string) Document {
	return AsDocument(d[key])
}

// Lookup resolves a slash separated path through nested objects.
func (d Document) Lookup(path string) (any, bool) {
	var current any = map[string]any(d)
	for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
		m := AsDocument(current)
		if m == nil {
			return nil, false
		}
		v, ok := m[part]
		if !ok {
			return nil, false
		}
		current = v
	}
	return current, true
}

// SortedKeys returns the document's keys in ascending order.
func (d Document) SortedKeys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ApplyPatch returns a copy of doc with patch merged in.
//
// Patch keys may be slash paths ("gameMetrics/gameScores"); intermediate
// objects are created as needed and non-object values on the way are
// replaced. A nil value removes the addressed field.
func ApplyPatch(doc Document, patch map[string]any) Document {
	out := doc.Clone()
	if out == nil {
		out = Document{}
	}

	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		parts := strings.Split(strings.Trim(key, "/"), "/")
		parent := map[string]any(out)
		for _, part := range parts[:len(parts)-1] {
			next := AsDocument(parent[part])
			if next == nil {
				next = Document{}
			}
			parent[part] = map[string]any(next)
			parent = next
		}

		leaf := parts[len(parts)-1]
		if patch[key] == nil {
			delete(parent, leaf)
			continue
		}
		parent[leaf] = cloneValue(patch[key])
	}

	return out
}

// AsDocument converts a nested object value to a Document.
func AsDocument(v any) Document {
	switch t := v.(type) {
	case Document:
		return t
	case map[string]any:
		return Document(t)
	default:
		return nil
	}
}

// AsString formats scalar values as strings.
func AsString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// AsInt converts numeric values and numeric strings to int.
func AsInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return int(t), true
	case float32:
		return int(t), true
	case int:
		return t, true
	case int64:
		return int(t), true
	case int32:
		return int(t), true
	case json.Number:
		n, err := t.Int64()
		return int(n), err == nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		return n, err == nil
	default:
		return 0, false
	}
}
