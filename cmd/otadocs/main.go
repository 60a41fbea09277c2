package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"otadocs/internal/services"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode maps invocation mistakes to 2 and every other failure to 1.
func exitCode(err error) int {
	if errors.Is(err, services.ErrUsage) {
		return 2
	}
	return 1
}
