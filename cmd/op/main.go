// Command op is a command-line client for ownpaste servers.
package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/sagarc03/op/clientcli"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Exit codes.
const (
	exitOK       = 0
	exitFailure  = 1
	exitAPIError = 2
)

// app holds the streams and settings shared by all commands.
type app struct {
	stdin            io.Reader
	stdout           io.Writer
	stderr           io.Writer
	stdinIsTerminal  bool
	stdoutIsTerminal bool
	stderrIsTerminal bool

	v      *viper.Viper
	logger *slog.Logger
}

func newApp() *app {
	return &app{
		stdin:            os.Stdin,
		stdout:           os.Stdout,
		stderr:           os.Stderr,
		stdinIsTerminal:  isTerminal(os.Stdin),
		stdoutIsTerminal: isTerminal(os.Stdout),
		stderrIsTerminal: isTerminal(os.Stderr),
		v:                viper.New(),
		logger:           slog.Default(),
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "op",
		Version: clientcli.Version,
		Short:   "ownpaste client",
		Long: `op - command-line client for ownpaste servers

Profiles are read from ~/.oprc (INI) unless --config-file is given:

  [settings]
  default_profile = work

  [profile:work]
  username = ownpaste
  password = secret
  base_url = https://paste.example.com

Exit status is 0 on success, 2 when a paste is not found or local input
is unusable, and 1 for any other error.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.readConfig(cmd.Root().PersistentFlags()); err != nil {
				return err
			}
			a.setupLogging()
			return nil
		},
	}
	rootCmd.SetVersionTemplate("op/{{.Version}}\n")
	rootCmd.SetIn(a.stdin)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &clientcli.CommandError{Message: err.Error()}
	})

	flags := rootCmd.PersistentFlags()
	flags.StringP("config-file", "c", "", "configuration file (default: ~/.oprc, env: OP_CONFIG_FILE)")
	flags.StringP("profile", "o", "", "configuration profile, defaults to [settings].default_profile or \"default\" (env: OP_PROFILE)")
	flags.Bool("json", false, "output as JSON")
	flags.BoolP("quiet", "q", false, "suppress non-essential output")
	flags.String("log-level", "", "log level: debug, info, warn, error (default: warn, env: OP_LOG_LEVEL)")
	flags.Duration("timeout", 0, "HTTP timeout, 0 for none (env: OP_TIMEOUT)")

	rootCmd.AddCommand(newAddCmd(a))
	rootCmd.AddCommand(newGetCmd(a))
	rootCmd.AddCommand(newModifyCmd(a))
	rootCmd.AddCommand(newDeleteCmd(a))
	rootCmd.AddCommand(newLanguagesCmd(a))
	rootCmd.AddCommand(newConfigureCmd(a))

	return rootCmd
}

func main() {
	os.Exit(run(context.Background(), newApp(), os.Args[1:]))
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, a *app, args []string) int {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	_ = a.formatter().FormatError(a.stderr, err)
	return exitCode(err)
}

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	var apiErr *clientcli.APIError
	if errors.As(err, &apiErr) {
		return exitAPIError
	}
	return exitFailure
}

// formatter returns the appropriate formatter based on flags.
func (a *app) formatter() clientcli.Formatter {
	return clientcli.NewFormatter(a.v.GetBool("json"), a.v.GetBool("quiet"), a.stdoutIsTerminal)
}

// loadConfig resolves the active profile. It never touches the network.
func (a *app) loadConfig() (*clientcli.Config, error) {
	return clientcli.Load(a.v.GetString("config-file"), a.v.GetString("profile"))
}

// openClient opens a session for cfg.
func (a *app) openClient(ctx context.Context, cfg *clientcli.Config) (*clientcli.Client, error) {
	opts := []clientcli.Option{clientcli.WithLogger(a.logger)}
	if timeout := a.v.GetDuration("timeout"); timeout > 0 {
		opts = append(opts, clientcli.WithTimeout(timeout))
	}
	return clientcli.New(ctx, cfg, opts...)
}

// getClient loads the configuration and opens a client.
func (a *app) getClient(ctx context.Context) (*clientcli.Client, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	return a.openClient(ctx, cfg)
}

// rangeArgs is cobra.RangeArgs reporting misuse as a CommandError.
func rangeArgs(lo, hi int) cobra.PositionalArgs {
	check := cobra.RangeArgs(lo, hi)
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &clientcli.CommandError{Message: err.Error()}
		}
		return nil
	}
}
