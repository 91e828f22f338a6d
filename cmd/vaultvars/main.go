// Command vaultvars resolves vault: variable references from the command
// line and renders configuration documents with their references resolved.
package main

import (
	"os"

	"github.com/jonwraymond/vaultvars/credentials"
)

var version = "dev"

func main() {
	a := &app{
		stdout: os.Stdout,
		stderr: os.Stderr,
		env:    credentials.OSEnvironment(),
	}
	if err := newRootCmd(a).Execute(); err != nil {
		os.Exit(1)
	}
}
