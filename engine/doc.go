// Package engine resolves "vault:" variable references against a key/value
// secret backend.
//
// An Engine owns the resolved credentials, a backend client and a document
// cache. Each document path is fetched at most once per Engine (concurrent
// first requests may fetch twice unless WithCoalescing is set); every later
// reference into the same document is answered from memory.
//
//	eng := engine.New(engine.Config{Env: credentials.OSEnvironment()},
//	    engine.WithLogger(logger))
//
//	v, err := eng.Resolve(ctx, "vault:secret/app/db.password")
//
// Resolve returns:
//
//   - the value at the field path, as decoded from JSON;
//   - nil and a nil error when the field is absent or null (a warning is
//     logged);
//   - a *reference.FormatError for malformed references;
//   - a *ResolveError, matching backend.ErrCommunication, when the fetch
//     fails. Failed fetches are not cached.
package engine
