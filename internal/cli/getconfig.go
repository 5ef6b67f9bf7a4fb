package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	sigsyaml "sigs.k8s.io/yaml"
)

// getConfigCmd represents the get-config command
var getConfigCmd = &cobra.Command{
	Use:   "get-config <connector>",
	Short: "Get the configuration of a connector",
	Long: `Get the configuration key-value pairs of a connector, without task metadata.

Examples:
  # Get a connector configuration as YAML
  kconnect get-config my-connector

  # Get a connector configuration as JSON
  kconnect get-config my-connector -j`,
	Args: cobra.ExactArgs(1),
	RunE: getConnectorConfig,
}

// getConnectorConfig fetches and prints the configuration map of a connector
func getConnectorConfig(cmd *cobra.Command, args []string) error {
	client := newConnectClient()

	config, err := client.ConnectorConfig(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if jsonOutput {
		output := map[string]any{
			"result": 1,
			"value":  config,
		}
		jsonBytes, err := json.MarshalIndent(output, "", "    ")
		if err != nil {
			return fmt.Errorf("failed to format JSON output: %v", err)
		}
		fmt.Println(string(jsonBytes))
		return nil
	}

	jsonBytes, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode connector configuration: %v", err)
	}
	yamlBytes, err := sigsyaml.JSONToYAML(jsonBytes)
	if err != nil {
		return fmt.Errorf("failed to format YAML output: %v", err)
	}
	fmt.Print(string(yamlBytes))
	return nil
}

// init adds the get-config command to the root command
func init() {
	rootCmd.AddCommand(getConfigCmd)
}
