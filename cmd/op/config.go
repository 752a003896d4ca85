package main

import (
	"strings"

	"github.com/sagarc03/op/clientcli"
	"github.com/spf13/pflag"
)

func (a *app) setDefaults() {
	a.v.SetDefault("config-file", clientcli.DefaultConfigPath())
	a.v.SetDefault("log-level", "warn")
	a.v.SetDefault("log-format", "text")
}

// readConfig binds the global flags and OP_* environment variables.
// Precedence: flags > env > defaults.
func (a *app) readConfig(flags *pflag.FlagSet) error {
	a.setDefaults()

	if err := a.v.BindPFlags(flags); err != nil {
		return &clientcli.CommandError{Message: "bind flags: " + err.Error()}
	}

	a.v.SetEnvPrefix("OP")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	a.v.AutomaticEnv()
	return nil
}
