package credentials

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jonwraymond/vaultvars/observe"
)

const (
	// DefaultAddress is used when no address is configured.
	DefaultAddress = "http://localhost:8200"

	// EnvToken names the token environment variable.
	EnvToken = "VAULT_TOKEN"

	// EnvAddress names the address environment variable.
	EnvAddress = "VAULT_ADDR"

	// TokenFileName is the token file looked up in the home directory.
	TokenFileName = ".vault-token"
)

var homeVars = []string{"HOME", "HOMEPATH", "USERPROFILE"}

// Source records where a credential value came from.
type Source string

// Credential sources.
const (
	SourceNone        Source = "none"
	SourceConfig      Source = "config"
	SourceEnvironment Source = "environment"
	SourceTokenFile   Source = "token-file"
	SourceDefault     Source = "default"
)

// Config holds the explicitly configured values and the lookup context.
type Config struct {
	// Token is the configured token. Highest priority when non-empty.
	Token string

	// Address is the configured backend address.
	Address string

	// Env supplies environment variables. Nil means no environment.
	Env Environment

	// TrimTokenFile strips trailing whitespace from the token file contents.
	// Default: false, the file is used byte for byte.
	TrimTokenFile bool
}

// Credentials is the resolved address and token.
type Credentials struct {
	Address       string
	Token         string
	TokenSource   Source
	AddressSource Source

	// TokenFile is the path of the token file when TokenSource is
	// SourceTokenFile.
	TokenFile string
}

// Resolve picks the token and address by priority. It never fails.
func Resolve(cfg Config) Credentials {
	var creds Credentials
	creds.Token, creds.TokenSource, creds.TokenFile = resolveToken(cfg)
	creds.Address, creds.AddressSource = resolveAddress(cfg)
	return creds
}

func resolveToken(cfg Config) (string, Source, string) {
	if cfg.Token != "" {
		return cfg.Token, SourceConfig, ""
	}
	if tok := cfg.Env.lookup(EnvToken); tok != "" {
		return tok, SourceEnvironment, ""
	}

	home := cfg.Env.homeDir()
	if home == "" {
		return "", SourceNone, ""
	}
	path := filepath.Join(home, TokenFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", SourceNone, ""
	}
	tok := string(data)
	if cfg.TrimTokenFile {
		tok = strings.TrimRight(tok, " \t\r\n")
	}
	if tok == "" {
		return "", SourceNone, ""
	}
	return tok, SourceTokenFile, path
}

func resolveAddress(cfg Config) (string, Source) {
	if cfg.Address != "" {
		return cfg.Address, SourceConfig
	}
	if addr := cfg.Env.lookup(EnvAddress); addr != "" {
		return addr, SourceEnvironment
	}
	return DefaultAddress, SourceDefault
}

// HasToken reports whether a token was found.
func (c Credentials) HasToken() bool {
	return c.TokenSource != SourceNone && c.Token != ""
}

// LogFields describes the credentials for logging. The token itself is
// never included.
func (c Credentials) LogFields() []observe.Field {
	fields := []observe.Field{
		observe.F("address", c.Address),
		observe.F("address_source", string(c.AddressSource)),
		observe.F("token_source", string(c.TokenSource)),
	}
	if c.TokenFile != "" {
		fields = append(fields, observe.F("token_file", c.TokenFile))
	}
	return fields
}
