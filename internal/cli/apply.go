package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Apply command flags
	ignoreErrors bool
)

// applyCmd represents the apply command
var applyCmd = &cobra.Command{
	Use:   "apply -f FILENAME [flags]",
	Short: "Apply connector manifests from a file",
	Long: `Apply connector manifests from a file. Each YAML document declares one
connector by name and configuration. Connectors that do not exist are created;
connectors that exist are updated to match the manifest.

Manifest values may reference environment variables with {{ .ENV.NAME }}
placeholders, resolved from the shell and from a .env file in the working
directory.

Examples:
  # Apply a single manifest
  kconnect apply -f connector.yaml

  # Apply a multi-document manifest, continuing past failures
  kconnect apply -f connectors.yaml --ignore-errors`,
	RunE: applyManifests,
}

// applyManifests loads connector manifests from a file and upserts each one
func applyManifests(cmd *cobra.Command, args []string) error {
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

	var statusValues []map[string]any
	defer func() {
		if len(statusValues) > 0 {
			if jsonOutput {
				printJSON(statusValues)
			} else {
				for _, status := range statusValues {
					applied, exists := status["applied"]
					if !exists {
						applied = false
					}
					if applied.(bool) {
						okLabel.Fprintf(os.Stdout, "[OK] ")
						fmt.Fprintf(os.Stdout, "Applied: %s\n", status["name"])
					} else {
						if !ignoreErrors {
							errorLabel.Fprintf(os.Stderr, "[ERROR] ")
							fmt.Fprintf(os.Stderr, "%s: %s\n", status["name"], status["error"])
						} else {
							errorLabel.Fprintf(os.Stdout, "[ERROR] ")
							fmt.Fprintf(os.Stdout, "%s: %s\n", status["name"], status["error"])
						}
					}
				}
			}
		}
	}()

	for _, manifest := range manifests {
		kv, err := handleApplyManifest(cmd, manifest)
		if err != nil {
			statusValues = append(statusValues, map[string]any{
				"name":    manifest.Name,
				"applied": false,
				"error":   err.Error(),
			})
			if !ignoreErrors {
				return ErrAlreadyHandled
			}
			continue
		}
		statusValues = append(statusValues, kv)
	}
	return nil
}

func handleApplyManifest(cmd *cobra.Command, manifest ConnectorManifest) (map[string]any, error) {
	client := newConnectClient()

	def, err := client.UpdateConnectorConfig(cmd.Context(), manifest.Name, manifest.Config)
	if err != nil {
		return nil, err
	}

	kv := map[string]any{
		"name":    def.Name,
		"applied": true,
		"tasks":   len(def.Tasks),
	}
	return kv, nil
}

// init initializes the apply command with its flags and adds it to the root command
func init() {
	// Add flags to the apply command
	applyCmd.Flags().StringP("filename", "f", "", "Filename of the connector manifest to apply")
	applyCmd.MarkFlagRequired("filename")
	applyCmd.Flags().BoolVarP(&ignoreErrors, "ignore-errors", "i", false, "Ignore errors and continue with the next manifest")

	// Add the apply command to the root command
	rootCmd.AddCommand(applyCmd)
}
