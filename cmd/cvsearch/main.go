// Package main provides the entry point for the cvsearch CLI.
package main

import (
	"os"

	"github.com/talenthive/cvsearch/cmd/cvsearch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
