// Package main is the entry point for the relpack CLI.
package main

import (
	"os"

	"github.com/relpack/relpack/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
