package commands

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewInfoCommand creates the API info command.
func NewInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show API endpoint information",
		Long:  "Show name and version information for the configured API endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient()
			if err != nil {
				return err
			}

			ctx, cancel := commandContext()
			defer cancel()

			info, err := client.GetInfo(ctx)
			if err != nil {
				return presentError(err, false)
			}

			format := outputFormat()
			if format != OutputFormatTable {
				return renderStructured(info, format)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Field", "Value")
			_ = table.Append("Name", info.Name)
			_ = table.Append("Version", info.Version)
			_ = table.Render()

			if client.Authenticated() {
				if identity := client.Identity(); identity != nil {
					fmt.Printf("\nLogged in as %s (%s)\n", identity.Username, identity.Role)
				}
			}

			return nil
		},
	}
}
