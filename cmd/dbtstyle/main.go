// Package main is the entry point of the dbtstyle CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/dbtstyle/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
