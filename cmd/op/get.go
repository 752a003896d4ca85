package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get PASTE_ID [FILE]",
		Short: "Get a paste",
		Long: `Get a paste.

PASTE_ID is the public or private identifier of the paste. The content is
written to FILE when given, instead of STDOUT.`,
		Args: rangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGet(cmd, args)
		},
	}
}

func (a *app) runGet(cmd *cobra.Command, args []string) error {
	client, err := a.getClient(cmd.Context())
	if err != nil {
		return err
	}

	paste, err := client.Fetch(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if path := argAt(args, 1); path != "" {
		if err := os.WriteFile(path, []byte(paste.FileContent), 0o644); err != nil { //#nosec G306 -- paste content is not secret
			return fmt.Errorf("write %s: %w", path, err)
		}
		return nil
	}

	_, err = io.WriteString(a.stdout, paste.FileContent)
	return err
}
