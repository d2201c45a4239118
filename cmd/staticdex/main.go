// Package main provides the entry point for the staticdex CLI.
package main

import (
	"fmt"
	"os"

	"github.com/staticdex/staticdex/cmd/staticdex/cmd"
	"github.com/staticdex/staticdex/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(errors.ExitCode(err))
	}
}
