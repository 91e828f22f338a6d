// Package document models secret documents fetched from the backend.
//
// A Document is an untyped JSON tree: strings, float64 numbers, booleans,
// nil, []any lists and map[string]any mappings. Lookup walks a field path
// through that tree.
package document
