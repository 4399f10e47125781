package main

import (
	"fmt"
	"os"

	"github.com/kyleking/sql-advisor/cmd"
	"github.com/kyleking/sql-advisor/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", errors.UserMessage(err))
		os.Exit(exitCode(err))
	}
}

// Usage problems exit 2 so scripts can tell bad input from real failures.
func exitCode(err error) int {
	if errors.IsType(err, errors.ErrTypeInput) {
		return 2
	}

	return 1
}
