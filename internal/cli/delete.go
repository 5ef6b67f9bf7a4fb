package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <connector>",
	Short: "Delete a connector",
	Long: `Delete a connector, halting all its tasks and discarding its configuration.

Examples:
  # Delete a connector
  kconnect delete my-connector`,
	Args: cobra.ExactArgs(1),
	RunE: deleteConnector,
}

// deleteConnector handles the deletion of a connector by name
func deleteConnector(cmd *cobra.Command, args []string) error {
	client := newConnectClient()

	_, err := client.DeleteConnector(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Successfully deleted %s\n", args[0])
	return nil
}

// init initializes the delete command and adds it to the root command
func init() {
	rootCmd.AddCommand(deleteCmd)
}
