package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NashTech-Labs/kafka-connect-client/pkg/connect"
)

// topicsCmd represents the topics command
var topicsCmd = &cobra.Command{
	Use:   "topics <connector>",
	Short: "List the topics a connector has used",
	Long: `List the Kafka topics a connector has produced to or consumed from
since its creation or since the last reset. Requires a 2.5.0+ worker.

Examples:
  # List active topics of a connector
  kconnect topics my-connector`,
	Args: cobra.ExactArgs(1),
	RunE: getConnectorTopics,
}

// resetTopicsCmd represents the reset-topics command
var resetTopicsCmd = &cobra.Command{
	Use:   "reset-topics <connector>",
	Short: "Reset the active topics of a connector",
	Long: `Reset the set of topics a connector reports as active. The worker
starts tracking again from an empty set. Requires a 2.5.0+ worker.

Examples:
  # Reset the active topics of a connector
  kconnect reset-topics my-connector`,
	Args: cobra.ExactArgs(1),
	RunE: resetConnectorTopics,
}

// getConnectorTopics fetches and prints the active topics of a connector
func getConnectorTopics(cmd *cobra.Command, args []string) error {
	client := newConnectClient()
	warnVersionGate(cmd, client, "topic tracking", "2.5.0", connect.ServerVersion.SupportsTopicTracking)

	topics, err := client.ConnectorTopics(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if jsonOutput {
		output := map[string]any{
			"result": 1,
			"value":  topics,
		}
		jsonBytes, err := json.MarshalIndent(output, "", "    ")
		if err != nil {
			return fmt.Errorf("failed to format JSON output: %v", err)
		}
		fmt.Println(string(jsonBytes))
		return nil
	}

	if len(topics.Topics) == 0 {
		fmt.Printf("No active topics for %s\n", topics.Name)
		return nil
	}
	fmt.Printf("Topics of %s:\n", topics.Name)
	for _, topic := range topics.Topics {
		fmt.Printf("- %s\n", topic)
	}
	return nil
}

// resetConnectorTopics resets the active topic set of a connector
func resetConnectorTopics(cmd *cobra.Command, args []string) error {
	client := newConnectClient()
	warnVersionGate(cmd, client, "topic tracking", "2.5.0", connect.ServerVersion.SupportsTopicTracking)

	if _, err := client.ResetConnectorTopics(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Printf("Reset topics of %s\n", args[0])
	return nil
}

// init adds the topic commands to the root command
func init() {
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(resetTopicsCmd)
}
