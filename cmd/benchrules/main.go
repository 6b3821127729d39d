// Package main provides the benchrules CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/benchrules/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
