// Package reference parses vault variable references.
//
// A reference has the form:
//
//	<mount>/<path>/<to>/<secret>.<key>.<subkey>
//
// The part before the first "." is the document path, split on "/". The
// remaining "."-separated segments form the field path used to navigate into
// the fetched document. A leading scheme marker such as "vault:" is removed
// with StripScheme before parsing.
package reference
