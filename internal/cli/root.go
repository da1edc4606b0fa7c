// Package cli wires the command line: the default command launches the desktop window,
// the subcommands work on the same database without it.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	dbPath     string
	verbose    bool
}

func newRootCmd(version string) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "focus-title",
		Short: "Focus Title - one task, one timer",
		Long: `Focus Title keeps a list of tasks and times the one you are working on.

Run without arguments to open the window. Only the selected task's timer can run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLaunch(cmd, flags)
		},
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/focus-title/focus-title.yml)")
	rootCmd.PersistentFlags().StringVar(&flags.dbPath, "db", "", "Database file, overrides the configured data folder")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(newExportCmd(flags))
	rootCmd.AddCommand(newTrashCmd(flags))
	rootCmd.AddCommand(newVersionCmd(version))
	return rootCmd
}

// Execute runs the root command
func Execute(version string) error {
	if err := newRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "focus-title %s\n", version)
		},
	}
}
