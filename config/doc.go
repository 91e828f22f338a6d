// Package config loads host configuration documents and resolves the
// variable references inside them.
//
// YAML and JSON documents carry references as ${source:address} strings.
// HCL documents call one function per source instead, since HCL reserves
// ${...} for its own templates:
//
//	custom {
//	  vault_address = env("VAULT_ADDR")
//	}
//
//	database {
//	  password = vault("secret/app/db.password")
//	}
//
// Loading is two-phase. Custom evaluates only the vault_token and
// vault_address settings of the custom section, with a resolver that knows
// the sources not depending on them (typically env). Those settings build
// the vault source. Render then resolves the whole document, including the
// rest of the custom section, with every source.
package config
