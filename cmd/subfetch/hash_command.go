package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"subfetch/internal/moviehash"
)

func newHashCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "hash FILE...",
		Short:       "Print the content hash used for subtitle matching",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return fmt.Errorf("%w: at least one file is required", errUsage)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var failed bool
			for _, path := range args {
				fp, err := moviehash.ComputeFile(path)
				if err != nil {
					if errors.Is(err, moviehash.ErrTooSmall) {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: file too small to hash (needs at least %d bytes)\n", path, moviehash.MinFileSize)
					} else {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					}
					failed = true
					continue
				}
				fmt.Fprintf(out, "%s  %d  %s\n", fp.Hex(), fp.Size, path)
			}
			if failed {
				return errors.New("could not hash every file")
			}
			return nil
		},
	}
}
