// Package cmd wires configuration, the store and the HTTP layer together
// behind the tareas command line.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set by ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

var configFile string

// NewRootCmd returns the tareas command. Running it without a subcommand
// serves the HTTP API.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tareas",
		Short:         "Task tracking HTTP service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "path to a YAML config file")
	root.Flags().Int("port", 3000, "HTTP listen port")
	root.Flags().String("store-driver", "sqlite", "sqlite|mysql|postgres|neo4j|memory")
	root.Flags().String("store-dsn", "", "data source name for sql drivers")
	root.Flags().String("log-level", "info", "debug|info|warn|error")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tareas %s (%s)\n", version, commit)
		},
	})
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
