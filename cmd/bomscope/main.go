// Package main provides the entry point for the bomscope CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/bomscope/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
