package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// cliVersion is set by NewVersionCommand so other commands can embed it in
// the User-Agent header.
var cliVersion = "dev"

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	cliVersion = version

	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cardctl %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
		},
	}
}
