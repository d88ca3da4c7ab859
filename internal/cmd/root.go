package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command with all subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "zmux",
		Short: "Terminal multiplexer client",
		Long:  "zmux multiplexes terminal sessions, windows and panes behind a server daemon reached over a Unix domain socket.",
	}

	rootCmd.AddCommand(
		newNewSessionCmd(),
		newAttachSessionCmd(),
		newKillServerCmd(),
		newListSessionsCmd(),
		newVersionCmd(),
	)

	return rootCmd
}
