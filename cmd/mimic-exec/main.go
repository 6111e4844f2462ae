// Package main is the entry point for the mimic-exec CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/mimic/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
