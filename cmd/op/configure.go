package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/sagarc03/op/clientcli"
	"github.com/spf13/cobra"
)

func newConfigureCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Manage server profiles",
		Long: `Manage server profiles in the configuration file.

Profiles save the connection settings for several ownpaste servers. Pick
one with --profile or OP_PROFILE.

Changes are written back into the existing file. Comments, other sections
and unknown keys are kept.`,
	}

	cmd.AddCommand(newConfigureListCmd(a))
	cmd.AddCommand(newConfigureAddCmd(a))
	cmd.AddCommand(newConfigureRemoveCmd(a))
	cmd.AddCommand(newConfigureSetDefaultCmd(a))
	cmd.AddCommand(newConfigureShowCmd(a))

	return cmd
}

func (a *app) configPath() string {
	return a.v.GetString("config-file")
}

// loadOrEmpty loads the config file, returning an empty one when it does
// not exist yet.
func (a *app) loadOrEmpty() (*clientcli.ConfigFile, error) {
	cfg, err := clientcli.LoadConfigFile(a.configPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &clientcli.ConfigFile{}, nil
		}
		return nil, err
	}
	return cfg, nil
}

func newConfigureListCmd(a *app) *cobra.Command {
	var showSecrets bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all configured profiles",
		Long: `List all profiles configured in the config file.

The default profile is marked with an asterisk (*).`,
		Args: rangeArgs(0, 0),
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := a.loadOrEmpty()
			if err != nil {
				return err
			}

			if len(cfg.Profiles) == 0 && !a.v.GetBool("json") {
				_, _ = fmt.Fprintln(a.stdout, "No profiles configured.")
				_, _ = fmt.Fprintln(a.stdout, "Run 'op configure add <name>' to create one.")
				return nil
			}

			return a.formatter().FormatProfileList(a.stdout, cfg.Profiles, cfg.ActiveProfileName(), showSecrets)
		},
	}

	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "show secret values")
	return cmd
}

type configureAddOptions struct {
	baseURL    string
	username   string
	password   string
	setDefault bool
	yes        bool
}

func newConfigureAddCmd(a *app) *cobra.Command {
	opts := &configureAddOptions{}

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new profile",
		Long: `Add a new profile.

Values not given as flags are prompted for:
  - Base URL
  - Username
  - Password

The server is contacted before saving.`,
		Args: rangeArgs(1, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigureAdd(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "ownpaste server URL")
	cmd.Flags().StringVar(&opts.username, "username", "", "username (default: ownpaste)")
	cmd.Flags().StringVar(&opts.password, "password", "", "password")
	cmd.Flags().BoolVar(&opts.setDefault, "default", false, "set as default profile")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "answer yes to confirmations")

	return cmd
}

func (a *app) runConfigureAdd(cmd *cobra.Command, opts *configureAddOptions, name string) error {
	cfg, err := a.loadOrEmpty()
	if err != nil {
		return err
	}

	existing, _ := cfg.GetProfile(name)
	if existing != nil && !a.confirm(opts.yes, fmt.Sprintf("Profile '%s' already exists. Update it", name)) {
		_, _ = fmt.Fprintln(a.stdout, "Cancelled.")
		return nil
	}

	baseURL := opts.baseURL
	if baseURL == "" {
		if baseURL, err = a.ask("base-url", promptui.Prompt{Label: "Base URL", Validate: validateBaseURL}); err != nil {
			return err
		}
	} else if err := validateBaseURL(baseURL); err != nil {
		return &clientcli.CommandError{Message: err.Error()}
	}

	username := opts.username
	if username == "" && !cmd.Flags().Changed("username") && a.stdinIsTerminal {
		if username, err = a.ask("username", promptui.Prompt{Label: "Username", Default: clientcli.DefaultUsername}); err != nil {
			return err
		}
	}

	password := opts.password
	if password == "" {
		if password, err = a.ask("password", promptui.Prompt{Label: "Password", Mask: '*'}); err != nil {
			return err
		}
	}

	setAsDefault := opts.setDefault || len(cfg.Profiles) == 0
	if !setAsDefault && !cmd.Flags().Changed("default") && a.stdinIsTerminal {
		setAsDefault = a.confirm(false, "Set as default profile")
	}

	profile := clientcli.Profile{
		Name:     name,
		Username: username,
		Password: password,
		BaseURL:  strings.TrimRight(baseURL, "/"),
	}

	_, _ = fmt.Fprint(a.stdout, "Testing connection... ")
	if connErr := a.testConnection(cmd, profile); connErr != nil {
		_, _ = fmt.Fprintln(a.stdout, "FAILED")
		_, _ = fmt.Fprintf(a.stdout, "Warning: %s: %v\n", clientcli.ErrorKind(connErr), connErr)
		if !a.confirm(opts.yes, "Save profile anyway") {
			_, _ = fmt.Fprintln(a.stdout, "Cancelled.")
			return nil
		}
	} else {
		_, _ = fmt.Fprintln(a.stdout, "OK")
	}

	if existing != nil {
		err = cfg.UpdateProfile(profile)
	} else {
		err = cfg.AddProfile(profile)
	}
	if err != nil {
		return fmt.Errorf("add profile: %w", err)
	}
	if setAsDefault {
		cfg.DefaultProfile = name
	}

	if err := cfg.Save(a.configPath()); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	if existing != nil {
		_, _ = fmt.Fprintf(a.stdout, "Profile '%s' updated.\n", name)
	} else {
		_, _ = fmt.Fprintf(a.stdout, "Profile '%s' added.\n", name)
	}
	if setAsDefault {
		_, _ = fmt.Fprintln(a.stdout, "Set as default profile.")
	}
	return nil
}

// testConnection opens a session with the profile, which runs discovery.
func (a *app) testConnection(cmd *cobra.Command, p clientcli.Profile) error {
	cfg := (&clientcli.Config{
		Profile:  p.Name,
		Username: p.Username,
		Password: p.Password,
		BaseURL:  p.BaseURL,
	}).WithDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	_, err := a.openClient(cmd.Context(), cfg)
	return err
}

func validateBaseURL(input string) error {
	if input == "" {
		return errors.New("base URL is required")
	}
	u, err := url.Parse(input)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("URL must start with http:// or https://")
	}
	return nil
}

func newConfigureRemoveCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a profile",
		Args:    rangeArgs(1, 1),
		RunE: func(_ *cobra.Command, args []string) error {
			name := args[0]

			cfg, err := clientcli.LoadConfigFile(a.configPath())
			if err != nil {
				return err
			}
			if _, err := cfg.GetProfile(name); err != nil {
				return &clientcli.ConfigError{Message: "Invalid profile: " + name, Err: err}
			}

			if !a.confirm(yes, fmt.Sprintf("Remove profile '%s'", name)) {
				_, _ = fmt.Fprintln(a.stdout, "Cancelled.")
				return nil
			}

			if err := cfg.RemoveProfile(name); err != nil {
				return fmt.Errorf("remove profile: %w", err)
			}
			if err := cfg.Save(a.configPath()); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			_, _ = fmt.Fprintf(a.stdout, "Profile '%s' removed.\n", name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newConfigureSetDefaultCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-default <name>",
		Short: "Set the default profile",
		Args:  rangeArgs(1, 1),
		RunE: func(_ *cobra.Command, args []string) error {
			name := args[0]

			cfg, err := clientcli.LoadConfigFile(a.configPath())
			if err != nil {
				return err
			}
			if err := cfg.SetDefault(name); err != nil {
				return &clientcli.ConfigError{Message: "Invalid profile: " + name, Err: err}
			}
			if err := cfg.Save(a.configPath()); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			_, _ = fmt.Fprintf(a.stdout, "Default profile set to '%s'.\n", name)
			return nil
		},
	}
}

func newConfigureShowCmd(a *app) *cobra.Command {
	var showSecrets bool

	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Show profile details",
		Long: `Show details for a profile.

If no name is provided, shows the active profile.
Secrets are hidden by default; use --show-secrets to reveal them.`,
		Args: rangeArgs(0, 1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := clientcli.LoadConfigFile(a.configPath())
			if err != nil {
				return err
			}

			name := argAt(args, 0)
			if name == "" {
				name = a.v.GetString("profile")
			}
			if name == "" {
				name = cfg.ActiveProfileName()
			}

			p, err := cfg.GetProfile(name)
			if err != nil {
				return &clientcli.ConfigError{Message: "Invalid profile: " + name, Err: err}
			}

			return a.formatter().FormatProfileShow(a.stdout, *p, name == cfg.ActiveProfileName(), showSecrets)
		},
	}

	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "show secret values")
	return cmd
}

// confirm asks a yes/no question. yes answers it without prompting; a
// non-interactive stdin answers no.
func (a *app) confirm(yes bool, label string) bool {
	if yes {
		return true
	}
	if !a.stdinIsTerminal {
		return false
	}
	prompt := a.bindPrompt(promptui.Prompt{Label: label, IsConfirm: true})
	_, err := prompt.Run()
	return err == nil
}

// ask prompts for the value of flag. Without a terminal on stdin there is
// nobody to answer, so the flag becomes required.
func (a *app) ask(flag string, prompt promptui.Prompt) (string, error) {
	if !a.stdinIsTerminal {
		return "", &clientcli.CommandError{Message: fmt.Sprintf("--%s is required when stdin is not a terminal", flag)}
	}
	value, err := a.bindPrompt(prompt).Run()
	if err != nil {
		return "", a.handlePromptError(err)
	}
	return value, nil
}

// bindPrompt makes prompt read from and write to the app's streams.
func (a *app) bindPrompt(prompt promptui.Prompt) *promptui.Prompt {
	prompt.Stdin = io.NopCloser(a.stdin)
	prompt.Stdout = nopWriteCloser{a.stdout}
	return &prompt
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// handlePromptError turns an aborted prompt into a CommandError.
func (a *app) handlePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrEOF) {
		return &clientcli.CommandError{Message: "Cancelled."}
	}
	return err
}
