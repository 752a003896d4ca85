package main

import (
	"github.com/sagarc03/op/clientcli"
	"github.com/spf13/cobra"
)

func newLanguagesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List languages known to the server",
		Args:  rangeArgs(0, 0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.getClient(cmd.Context())
			if err != nil {
				return err
			}

			session := client.Session()
			ids := session.Languages()
			langs := make([]clientcli.Language, 0, len(ids))
			for _, id := range ids {
				langs = append(langs, clientcli.Language{ID: id, Name: session.LanguageName(id)})
			}

			return a.formatter().FormatLanguages(a.stdout, langs)
		},
	}
}
