// Package main is the entry point for the roowiz CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rooforge/roowiz/cmd/roowiz/commands"
	rooerrors "github.com/rooforge/roowiz/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)

		var exitErr *rooerrors.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Suggestion != "" {
				fmt.Fprintln(os.Stderr, "Suggestion:", exitErr.Suggestion)
			}
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
