package main

import (
	"github.com/sagarc03/op/clientcli"
	"github.com/spf13/cobra"
)

type addOptions struct {
	language string
	fileName string
	private  bool
	raw      bool
}

func newAddCmd(a *app) *cobra.Command {
	opts := &addOptions{}

	cmd := &cobra.Command{
		Use:   "add [FILE]",
		Short: "Add a paste",
		Long: `Add a paste.

Content is read from FILE, or from STDIN when it is not a terminal.

Examples:
  op add main.go
  op add -p -l python script.py
  dmesg | op add -r`,
		Args: rangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAdd(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "language alias")
	cmd.Flags().StringVarP(&opts.fileName, "file-name", "f", "", "override file name")
	cmd.Flags().BoolVarP(&opts.private, "private", "p", false, "add paste as private")
	cmd.Flags().BoolVarP(&opts.raw, "raw", "r", false, "show link to raw paste, instead of HTML page")

	return cmd
}

func (a *app) runAdd(cmd *cobra.Command, opts *addOptions, args []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	in, err := clientcli.ReadInput(a.inputSource(argAt(args, 0)), true)
	if err != nil {
		return err
	}

	client, err := a.openClient(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	create := clientcli.CreateOptions{
		FileContent: *in.Content,
		FileName:    firstNonEmpty(opts.fileName, in.Name),
		Language:    firstNonEmpty(opts.language, in.Language),
		Private:     opts.private,
	}

	paste, err := client.Create(cmd.Context(), create)
	if err != nil {
		return err
	}

	return a.printPaste(client, paste, opts.raw)
}

// inputSource reads from path, or from stdin when path is empty.
func (a *app) inputSource(path string) clientcli.InputSource {
	return clientcli.InputSource{
		Path:            path,
		Stdin:           a.stdin,
		StdinIsTerminal: a.stdinIsTerminal,
	}
}

// argAt returns args[i], or "" when the optional argument is absent.
func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func (a *app) printPaste(client *clientcli.Client, paste *clientcli.Paste, raw bool) error {
	link, err := clientcli.NewPasteLink(client, paste, raw)
	if err != nil {
		return err
	}
	return a.formatter().FormatPaste(a.stdout, link)
}

// firstNonEmpty returns a pointer to the first non-empty value, or nil.
func firstNonEmpty(values ...string) *string {
	for _, v := range values {
		if v != "" {
			return &v
		}
	}
	return nil
}
