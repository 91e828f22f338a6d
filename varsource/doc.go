// Package varsource resolves variable references embedded in configuration
// documents through named sources.
//
// A reference has the form ${<source>:<address>}:
//
//   - Full value: a string that is exactly one reference is replaced by the
//     source's value with its type preserved (a map stays a map).
//   - Inline: references inside a longer string are replaced by their
//     string form, e.g. "postgres://${vault:secret/db.user}@db".
//
// Sources are plain values implementing Source. A Registry maps source
// names to factories so that a host can build sources from its own
// configuration, and the env source reads environment variables strictly.
package varsource
