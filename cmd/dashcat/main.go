// Package main is the dashcat command-line entrypoint.
package main

import (
	"os"

	"github.com/dsa-labs/dashcat/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
