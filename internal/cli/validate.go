package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/NashTech-Labs/kafka-connect-client/pkg/connect"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate -f FILENAME [flags]",
	Short: "Validate connector manifests against the worker",
	Long: `Validate connector manifests against the plugins installed on the worker,
without deploying anything. Each manifest must set connector.class so the
worker knows which plugin to validate against.

Examples:
  # Validate a manifest before applying it
  kconnect validate -f connector.yaml

  # Validate a multi-document manifest as JSON
  kconnect validate -f connectors.yaml -j`,
	RunE: validateManifests,
}

// validateManifests validates every manifest in a file against the worker
func validateManifests(cmd *cobra.Command, args []string) error {
	filename, err := cmd.Flags().GetString("filename")
	if err != nil {
		return err
	}
	if filename == "" {
		return fmt.Errorf("filename is required")
	}

	manifests, err := LoadManifests(filename)
	if err != nil {
		return err
	}
	if len(manifests) == 0 {
		return fmt.Errorf("no connector manifests found in %s", filename)
	}

	client := newConnectClient()

	totalErrors := 0
	var results []connect.ConfigValidationResults
	for _, manifest := range manifests {
		class := manifest.Config["connector.class"]
		if class == "" {
			return fmt.Errorf("manifest %s has no connector.class key", manifest.Name)
		}

		result, err := client.ValidatePluginConfig(cmd.Context(), connect.PluginConfigDefinition{
			Name:   class,
			Config: manifest.Config,
		})
		if err != nil {
			return err
		}
		totalErrors += result.ErrorCount
		results = append(results, result)

		if !jsonOutput {
			printValidationResult(manifest.Name, result)
		}
	}

	if jsonOutput {
		printJSON(results)
	}
	if totalErrors > 0 {
		if !jsonOutput {
			fmt.Fprintf(os.Stderr, "%d configuration error(s) found\n", totalErrors)
		}
		return ErrAlreadyHandled
	}
	return nil
}

// printValidationResult prints the validation verdict for one manifest
func printValidationResult(name string, result connect.ConfigValidationResults) {
	if result.ErrorCount == 0 {
		okLabel.Fprintf(os.Stdout, "[OK] ")
		fmt.Fprintf(os.Stdout, "%s\n", name)
		return
	}

	errorLabel.Fprintf(os.Stdout, "[ERROR] ")
	fmt.Fprintf(os.Stdout, "%s\n", name)
	keyErrors := result.KeyErrors()
	keys := make([]string, 0, len(keyErrors))
	for key := range keyErrors {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		for _, msg := range keyErrors[key] {
			fmt.Fprintf(os.Stdout, "  %s: %s\n", key, msg)
		}
	}
}

// init initializes the validate command with its flags and adds it to the root command
func init() {
	validateCmd.Flags().StringP("filename", "f", "", "Filename of the connector manifest to validate")
	validateCmd.MarkFlagRequired("filename")

	rootCmd.AddCommand(validateCmd)
}
