package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newVersionCmd creates the Cobra command for displaying the application version.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of authenticator",
		Long:  `All software has versions. This is authenticator's.`,
		Run: func(cmd *cobra.Command, args []string) {
			// The version is set on the root command by main at build time.
			fmt.Fprintf(cmd.OutOrStdout(), "authenticator version %s\n", cmd.Root().Version)
		},
	}
}
