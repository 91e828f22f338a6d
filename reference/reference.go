package reference

import "strings"

const (
	// DefaultScheme is the variable-source marker stripped by StripScheme.
	DefaultScheme = "vault"

	// PathSeparator separates document path segments.
	PathSeparator = "/"

	// FieldSeparator separates the document path from the field path and
	// field keys from each other.
	FieldSeparator = "."
)

// Reference is a parsed variable reference. It is immutable once returned
// by Parse.
type Reference struct {
	raw          string
	documentPath []string
	fieldPath    []string
}

// StripScheme removes a leading "<scheme>:" marker from raw if present.
// An empty scheme falls back to DefaultScheme.
func StripScheme(raw, scheme string) string {
	if scheme == "" {
		scheme = DefaultScheme
	}
	return strings.TrimPrefix(raw, scheme+":")
}

// Parse validates raw and splits it into a document path and a field path.
//
// Parse fails with a *FormatError (wrapping ErrInvalidFormat) when raw is
// empty, lacks a "/" or a ".", or contains an empty segment.
func Parse(raw string) (Reference, error) {
	if !validLength(raw) {
		return Reference{}, &FormatError{Input: raw}
	}

	docPart, fieldPart, _ := strings.Cut(raw, FieldSeparator)

	documentPath := strings.Split(docPart, PathSeparator)
	fieldPath := strings.Split(fieldPart, FieldSeparator)
	if hasEmpty(documentPath) || hasEmpty(fieldPath) {
		return Reference{}, &FormatError{Input: raw}
	}

	return Reference{
		raw:          raw,
		documentPath: documentPath,
		fieldPath:    fieldPath,
	}, nil
}

// validLength is the single-pass sanity check: a well formed reference has
// at least one character on each side of every delimiter, so its length is
// at least 2*delimiters+1.
func validLength(raw string) bool {
	if raw == "" {
		return false
	}
	if !strings.Contains(raw, PathSeparator) || !strings.Contains(raw, FieldSeparator) {
		return false
	}
	delimiters := strings.Count(raw, PathSeparator) + strings.Count(raw, FieldSeparator)
	return len(raw) >= 2*delimiters+1
}

func hasEmpty(segments []string) bool {
	for _, s := range segments {
		if s == "" {
			return true
		}
	}
	return false
}

// String returns the reference as it was given to Parse.
func (r Reference) String() string {
	return r.raw
}

// DocumentPath returns a copy of the document path segments.
func (r Reference) DocumentPath() []string {
	return append([]string(nil), r.documentPath...)
}

// FieldPath returns a copy of the field path segments.
func (r Reference) FieldPath() []string {
	return append([]string(nil), r.fieldPath...)
}

// Path returns the document path joined with "/". It is the cache key for
// the document.
func (r Reference) Path() string {
	return strings.Join(r.documentPath, PathSeparator)
}

// Field returns the field path joined with ".".
func (r Reference) Field() string {
	return strings.Join(r.fieldPath, FieldSeparator)
}

// Mount returns the first document path segment.
func (r Reference) Mount() string {
	if len(r.documentPath) == 0 {
		return ""
	}
	return r.documentPath[0]
}
