// Package main is the entry point for the adextract CLI.
package main

import (
	"os"

	"github.com/nordbil/adextract/cmd/adextract/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
