package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"subfetch/internal/services"
)

// Exit codes: 0 when every input file got at least one subtitle, 1 when
// any file fully failed or the run aborted, 2 for usage and
// configuration errors.
const (
	exitFailure = 1
	exitUsage   = 2
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

func exitCode(err error) int {
	if errors.Is(err, errUsage) || errors.Is(err, services.ErrConfiguration) {
		return exitUsage
	}
	return exitFailure
}
