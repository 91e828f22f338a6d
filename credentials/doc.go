// Package credentials decides which backend address and access token a
// resolution engine uses.
//
// Both values are resolved once, in priority order, and never change after
// that:
//
//	token:   Config.Token, then VAULT_TOKEN, then <home>/.vault-token
//	address: Config.Address, then VAULT_ADDR, then DefaultAddress
//
// The environment is passed in explicitly as an Environment lookup so that
// callers and tests control exactly what is visible. A nil Environment
// disables the environment and token-file steps.
//
// Resolution never fails. A missing token yields an empty token with
// TokenSource set to SourceNone; requests then go out unauthenticated and the
// backend decides.
package credentials
