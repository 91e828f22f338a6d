// Package backend talks to a Vault-compatible key/value (version 2) secret
// store over HTTP.
//
// A document path such as ["secret", "app", "db"] is read with
//
//	GET {address}/v1/secret/data/app/db
//	X-Vault-Token: <token>
//
// and the document is taken from the data.data member of the JSON response.
// Every request is a single attempt bounded by a short timeout; there are no
// retries. Failures are reported as *Error values that match
// ErrCommunication under errors.Is and carry the backend address.
package backend
