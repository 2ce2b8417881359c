// Package main provides the bqlint command.
package main

import (
	"errors"
	"os"

	"github.com/leapstack-labs/bqlint/internal/cli"
	"github.com/leapstack-labs/bqlint/internal/cli/commands"
)

func main() {
	if err := cli.Execute(); err != nil {
		if errors.Is(err, commands.ErrLintIssues) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}
