package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status <connector>",
	Short: "Show the status of a connector and its tasks",
	Long: `Show the current state of a connector and each of its tasks, including
the worker each one is assigned to and the stack trace of failed tasks.

Examples:
  # Show connector status
  kconnect status my-connector

  # Show connector status as JSON
  kconnect status my-connector -j`,
	Args: cobra.ExactArgs(1),
	RunE: getConnectorStatus,
}

// getConnectorStatus fetches and prints the status of a connector and its tasks
func getConnectorStatus(cmd *cobra.Command, args []string) error {
	client := newConnectClient()

	status, err := client.ConnectorStatus(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if jsonOutput {
		output := map[string]any{
			"result": 1,
			"value":  status,
		}
		jsonBytes, err := json.MarshalIndent(output, "", "    ")
		if err != nil {
			return fmt.Errorf("failed to format JSON output: %v", err)
		}
		fmt.Println(string(jsonBytes))
		return nil
	}

	fmt.Printf("Name:    %s\n", status.Name)
	fmt.Printf("Type:    %s\n", status.Type)
	fmt.Printf("State:   %s\n", stateLabel(status.Connector.State))
	fmt.Printf("Worker:  %s\n", status.Connector.WorkerID)
	if status.Connector.Trace != "" {
		fmt.Printf("Trace:\n%s\n", indentTrace(status.Connector.Trace))
	}

	fmt.Println("Tasks:")
	if len(status.Tasks) == 0 {
		fmt.Println("  (none)")
		return nil
	}
	for _, task := range status.Tasks {
		fmt.Printf("  %d: %s on %s\n", task.ID, stateLabel(task.State), task.WorkerID)
		if task.Trace != "" {
			fmt.Printf("%s\n", indentTrace(task.Trace))
		}
	}
	return nil
}

// indentTrace indents every line of a stack trace for nested display
func indentTrace(trace string) string {
	lines := strings.Split(strings.TrimRight(trace, "\n"), "\n")
	for i, line := range lines {
		lines[i] = "     " + line
	}
	return strings.Join(lines, "\n")
}

// init adds the status command to the root command
func init() {
	rootCmd.AddCommand(statusCmd)
}
