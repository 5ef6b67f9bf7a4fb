package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// tasksCmd represents the tasks command
var tasksCmd = &cobra.Command{
	Use:   "tasks <connector>",
	Short: "List the tasks of a connector",
	Long: `List the tasks the worker has allocated for a connector, with the
configuration assigned to each one.

Examples:
  # List tasks of a connector
  kconnect tasks my-connector

  # List tasks as JSON
  kconnect tasks my-connector -j`,
	Args: cobra.ExactArgs(1),
	RunE: listConnectorTasks,
}

// taskStatusCmd represents the task-status command
var taskStatusCmd = &cobra.Command{
	Use:   "task-status <connector> <task>",
	Short: "Show the status of one task",
	Long: `Show the current state of a single task of a connector.

Examples:
  # Show the status of task 0
  kconnect task-status my-connector 0`,
	Args: cobra.ExactArgs(2),
	RunE: getTaskStatus,
}

// restartTaskCmd represents the restart-task command
var restartTaskCmd = &cobra.Command{
	Use:   "restart-task <connector> <task>",
	Short: "Restart one task of a connector",
	Long: `Restart a single task of a connector. Useful when one task failed
while the rest of the connector kept running.

Examples:
  # Restart task 2
  kconnect restart-task my-connector 2`,
	Args: cobra.ExactArgs(2),
	RunE: restartConnectorTask,
}

// listConnectorTasks fetches and prints the task allocations of a connector
func listConnectorTasks(cmd *cobra.Command, args []string) error {
	client := newConnectClient()

	tasks, err := client.ConnectorTasks(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if jsonOutput {
		output := map[string]any{
			"result": 1,
			"value":  tasks,
		}
		jsonBytes, err := json.MarshalIndent(output, "", "    ")
		if err != nil {
			return fmt.Errorf("failed to format JSON output: %v", err)
		}
		fmt.Println(string(jsonBytes))
		return nil
	}

	fmt.Printf("Tasks of %s:\n", args[0])
	for _, task := range tasks {
		fmt.Printf("- %d (%s)\n", task.ID.Task, task.Config["task.class"])
	}
	return nil
}

// getTaskStatus fetches and prints the status of one task
func getTaskStatus(cmd *cobra.Command, args []string) error {
	taskID, err := parseTaskID(args[1])
	if err != nil {
		return err
	}

	client := newConnectClient()

	status, err := client.ConnectorTaskStatus(cmd.Context(), args[0], taskID)
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

	fmt.Printf("Task:    %d\n", status.ID)
	fmt.Printf("State:   %s\n", stateLabel(status.State))
	fmt.Printf("Worker:  %s\n", status.WorkerID)
	if status.Trace != "" {
		fmt.Printf("Trace:\n%s\n", indentTrace(status.Trace))
	}
	return nil
}

// restartConnectorTask restarts one task of a connector
func restartConnectorTask(cmd *cobra.Command, args []string) error {
	taskID, err := parseTaskID(args[1])
	if err != nil {
		return err
	}

	client := newConnectClient()

	if _, err := client.RestartConnectorTask(cmd.Context(), args[0], taskID); err != nil {
		return err
	}

	fmt.Printf("Restarted task %d of %s\n", taskID, args[0])
	return nil
}

// parseTaskID parses a task identifier argument
func parseTaskID(arg string) (int, error) {
	taskID, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q: expected a number", arg)
	}
	return taskID, nil
}

// init adds the task commands to the root command
func init() {
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(taskStatusCmd)
	rootCmd.AddCommand(restartTaskCmd)
}
