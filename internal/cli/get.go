package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	sigsyaml "sigs.k8s.io/yaml"
)

var (
	// Get command flags
	getOutputJSON bool
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <connector>",
	Short: "Get the definition of a connector",
	Long: `Get the definition of a connector: its name, configuration, and task assignments.

Examples:
  # Get a connector definition as YAML
  kconnect get my-connector

  # Get a connector definition as JSON
  kconnect get my-connector -o`,
	Args: cobra.ExactArgs(1),
	RunE: getConnector,
}

// getConnector fetches and prints a single connector definition
func getConnector(cmd *cobra.Command, args []string) error {
	client := newConnectClient()

	def, err := client.Connector(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if jsonOutput {
		output := map[string]any{
			"result": 1,
			"value":  def,
		}
		jsonBytes, err := json.MarshalIndent(output, "", "    ")
		if err != nil {
			return fmt.Errorf("failed to format JSON output: %v", err)
		}
		fmt.Println(string(jsonBytes))
		return nil
	}

	if getOutputJSON {
		printJSON(def)
		return nil
	}

	jsonBytes, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to encode connector definition: %v", err)
	}
	yamlBytes, err := sigsyaml.JSONToYAML(jsonBytes)
	if err != nil {
		return fmt.Errorf("failed to format YAML output: %v", err)
	}
	fmt.Print(string(yamlBytes))
	return nil
}

// init initializes the get command with its flags and adds it to the root command
func init() {
	rootCmd.AddCommand(getCmd)

	// Add flags
	getCmd.Flags().BoolVarP(&getOutputJSON, "output-json", "o", false, "Print the definition as indented JSON instead of YAML")
}
