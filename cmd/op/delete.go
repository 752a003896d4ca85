package main

import (
	"github.com/spf13/cobra"
)

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete PASTE_ID",
		Aliases: []string{"rm"},
		Short:   "Delete a paste",
		Long: `Delete a paste.

PASTE_ID is the public or private identifier of the paste.`,
		Args: rangeArgs(1, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.getClient(cmd.Context())
			if err != nil {
				return err
			}

			if _, err := client.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}

			return a.formatter().FormatDelete(a.stdout, args[0])
		},
	}
}
