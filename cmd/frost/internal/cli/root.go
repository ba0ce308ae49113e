// Package cli implements the frost CLI commands.
package cli

import (
	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	ConfigDir string
}

// NewRootCommand creates the root command for the frost CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "frost",
		Short: "Frost - declarative terminal UI runtime",
		Long: `Frost renders declarative element trees to the terminal, with reactive
state cells, a typed message bus, and per-element tickers.

Use "frost <command> --help" for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigDir, "config-dir", ".", "directory containing frost.yaml")

	cmd.AddCommand(NewDemoCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}
