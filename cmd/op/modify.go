package main

import (
	"github.com/sagarc03/op/clientcli"
	"github.com/spf13/cobra"
)

type modifyOptions struct {
	language      string
	fileName      string
	private       bool
	public        bool
	clearLanguage bool
	clearFileName bool
	raw           bool
}

func newModifyCmd(a *app) *cobra.Command {
	opts := &modifyOptions{}

	cmd := &cobra.Command{
		Use:   "modify PASTE_ID [FILE]",
		Short: "Modify a paste",
		Long: `Modify a paste.

Only the given fields are changed. New content is read from FILE, or from
STDIN when it is not a terminal; otherwise the content is left as is.

Examples:
  op modify -l go 12
  op modify -p 12 new.txt
  op modify --clear-language 12`,
		Args: rangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runModify(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "modify language alias")
	cmd.Flags().StringVarP(&opts.fileName, "file-name", "f", "", "modify file name")
	cmd.Flags().BoolVarP(&opts.private, "private", "p", false, "mark paste as private")
	cmd.Flags().BoolVarP(&opts.public, "public", "u", false, "mark paste as public")
	cmd.Flags().BoolVar(&opts.clearLanguage, "clear-language", false, "remove the language of the paste")
	cmd.Flags().BoolVar(&opts.clearFileName, "clear-file-name", false, "remove the file name of the paste")
	cmd.Flags().BoolVarP(&opts.raw, "raw", "r", false, "show link to raw paste, instead of HTML page")

	return cmd
}

func (o *modifyOptions) validate() error {
	switch {
	case o.private && o.public:
		return &clientcli.CommandError{Message: "--private and --public are mutually exclusive"}
	case o.clearLanguage && o.language != "":
		return &clientcli.CommandError{Message: "--language and --clear-language are mutually exclusive"}
	case o.clearFileName && o.fileName != "":
		return &clientcli.CommandError{Message: "--file-name and --clear-file-name are mutually exclusive"}
	}
	return nil
}

// update builds the change set. content is nil when there is no new content.
func (o *modifyOptions) update(content *string) clientcli.UpdateOptions {
	u := clientcli.UpdateOptions{
		FileContent: clientcli.FromPtr(content),
	}

	switch {
	case o.clearFileName:
		u.FileName = clientcli.Null[string]()
	case o.fileName != "":
		u.FileName = clientcli.Set(o.fileName)
	}

	switch {
	case o.clearLanguage:
		u.Language = clientcli.Null[string]()
	case o.language != "":
		u.Language = clientcli.Set(o.language)
	}

	switch {
	case o.private:
		u.Private = clientcli.Set(true)
	case o.public:
		u.Private = clientcli.Set(false)
	}

	return u
}

func (a *app) runModify(cmd *cobra.Command, opts *modifyOptions, args []string) error {
	if err := opts.validate(); err != nil {
		return err
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	in, err := clientcli.ReadInput(a.inputSource(argAt(args, 1)), false)
	if err != nil {
		return err
	}

	client, err := a.openClient(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	paste, err := client.Update(cmd.Context(), args[0], opts.update(in.Content))
	if err != nil {
		return err
	}

	return a.printPaste(client, paste, opts.raw)
}
