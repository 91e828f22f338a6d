package backend

import "net/http"

// TokenHeader carries the access token on every request.
const TokenHeader = "X-Vault-Token"

// tokenTransport sets TokenHeader on outgoing requests.
type tokenTransport struct {
	token string
	base  http.RoundTripper
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.token == "" {
		return t.base.RoundTrip(req)
	}
	// RoundTrippers must not modify the caller's request.
	clone := req.Clone(req.Context())
	clone.Header.Set(TokenHeader, t.token)
	return t.base.RoundTrip(clone)
}

// withToken returns a copy of client whose transport adds token.
func withToken(client *http.Client, token string) *http.Client {
	var c http.Client
	if client != nil {
		c = *client
	}
	base := c.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.Transport = &tokenTransport{token: token, base: base}
	return &c
}
