package document

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Document is a secret record as returned by the backend.
type Document map[string]any

// Decode reads a single JSON object from r.
func Decode(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("document: decode: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("document: decode: not an object")
	}
	return doc, nil
}

// Lookup walks path through the document. See the package-level Lookup.
func (d Document) Lookup(path []string) (any, bool) {
	return Lookup(map[string]any(d), path)
}

// Lookup walks path through value, one segment at a time.
//
// Mappings are indexed by key and lists by decimal index. It returns
// (nil, false) as soon as an intermediate value is not traversable or a
// segment is absent. A present JSON null yields (nil, true). An empty path
// returns value itself.
func Lookup(value any, path []string) (any, bool) {
	current := value
	for _, segment := range path {
		next, ok := step(current, segment)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func step(value any, segment string) (any, bool) {
	switch v := value.(type) {
	case map[string]any:
		next, ok := v[segment]
		return next, ok
	case Document:
		next, ok := v[segment]
		return next, ok
	case []any:
		idx, err := strconv.Atoi(segment)
		if err != nil || idx < 0 || idx >= len(v) {
			return nil, false
		}
		return v[idx], true
	default:
		return nil, false
	}
}

// Clone returns a deep copy of a JSON-compatible value. Scalars are
// returned as is.
func Clone(value any) any {
	switch v := value.(type) {
	case Document:
		return Document(cloneMap(v))
	case map[string]any:
		return cloneMap(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Clone(item)
		}
		return out
	default:
		return v
	}
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, item := range m {
		out[k] = Clone(item)
	}
	return out
}
