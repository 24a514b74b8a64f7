// Package main provides the recset CLI for record set regression tooling.
package main

import (
	"os"

	"github.com/recset-labs/recset/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
