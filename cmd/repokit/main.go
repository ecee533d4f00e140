// Package main is the entry point for the repokit CLI.
package main

import (
	"fmt"
	"os"

	"github.com/thoreinstein/repokit/cmd/repokit/commands"
	"github.com/thoreinstein/repokit/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	code := errors.ExitUser
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code
		if exitErr.Err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", exitErr.Err)
		}
		if exitErr.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "  %s\n", exitErr.Suggestion)
		}
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(code)
}
