package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// pluginsCmd represents the plugins command
var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List connector plugins installed on the worker",
	Long: `List the connector plugins installed on the worker, with their type
and version.

Examples:
  # List installed plugins
  kconnect plugins

  # List installed plugins as JSON
  kconnect plugins -j`,
	Args: cobra.NoArgs,
	RunE: listConnectorPlugins,
}

// listConnectorPlugins fetches and prints the installed connector plugins
func listConnectorPlugins(cmd *cobra.Command, args []string) error {
	client := newConnectClient()

	plugins, err := client.ConnectorPlugins(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput {
		output := map[string]any{
			"result": 1,
			"value":  plugins,
		}
		jsonBytes, err := json.MarshalIndent(output, "", "    ")
		if err != nil {
			return fmt.Errorf("failed to format JSON output: %v", err)
		}
		fmt.Println(string(jsonBytes))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CLASS\tTYPE\tVERSION")
	for _, plugin := range plugins {
		version := plugin.Version
		if version == "" {
			version = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", plugin.Class, plugin.Type, version)
	}
	return w.Flush()
}

// init adds the plugins command to the root command
func init() {
	rootCmd.AddCommand(pluginsCmd)
}
