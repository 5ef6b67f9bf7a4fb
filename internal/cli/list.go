package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/NashTech-Labs/kafka-connect-client/pkg/connect"
)

var (
	// List command flags
	listExpand string
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list [flags]",
	Short: "List connectors deployed on the worker",
	Long: `List connectors deployed on the worker. By default only names are shown;
--expand adds per-connector metadata (requires a 2.3.0+ worker).

Examples:
  # List connector names
  kconnect list

  # List connectors with their status
  kconnect list --expand status

  # List connectors with their definitions
  kconnect list --expand info

  # List connectors with everything, as JSON
  kconnect list --expand all -j`,
	Args: cobra.NoArgs,
	RunE: listConnectors,
}

// listConnectors handles listing connectors, with or without expansions
func listConnectors(cmd *cobra.Command, args []string) error {
	client := newConnectClient()
	ctx := cmd.Context()

	if listExpand != "" {
		warnVersionGate(cmd, client, "expanded connector listings", "2.3.0",
			connect.ServerVersion.SupportsExpandedMetadata)
	}

	switch listExpand {
	case "":
		names, err := client.Connectors(ctx)
		if err != nil {
			return err
		}
		return printConnectorNames(names)
	case "status":
		meta, err := client.ConnectorsExpandedStatus(ctx)
		if err != nil {
			return err
		}
		return printConnectorsMetadata(meta)
	case "info":
		meta, err := client.ConnectorsExpandedInfo(ctx)
		if err != nil {
			return err
		}
		return printConnectorsMetadata(meta)
	case "all":
		meta, err := client.ConnectorsAllExpanded(ctx)
		if err != nil {
			return err
		}
		return printConnectorsMetadata(meta)
	default:
		return fmt.Errorf("invalid --expand value %q (want status, info, or all)", listExpand)
	}
}

// init initializes the list command with its flags and adds it to the root command
func init() {
	rootCmd.AddCommand(listCmd)

	// Add flags
	listCmd.Flags().StringVarP(&listExpand, "expand", "e", "", "Expand metadata: status, info, or all")
}

// printConnectorNames formats connector names in either JSON or human-readable format
func printConnectorNames(names []string) error {
	if jsonOutput {
		output := map[string]any{
			"result": 1,
			"value":  names,
		}
		jsonBytes, err := json.MarshalIndent(output, "", "    ")
		if err != nil {
			return fmt.Errorf("failed to format JSON output: %v", err)
		}
		fmt.Println(string(jsonBytes))
		return nil
	}

	fmt.Printf("%s:\n", cases.Title(language.English).String("connectors"))
	for _, name := range names {
		fmt.Printf("- %s\n", name)
	}
	return nil
}

// printConnectorsMetadata formats an expanded listing as a table, or as
// JSON when requested
func printConnectorsMetadata(meta connect.ConnectorsMetadata) error {
	if jsonOutput {
		output := map[string]any{
			"result": 1,
			"value":  meta,
		}
		jsonBytes, err := json.MarshalIndent(output, "", "    ")
		if err != nil {
			return fmt.Errorf("failed to format JSON output: %v", err)
		}
		fmt.Println(string(jsonBytes))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tSTATE\tTASKS\tWORKER")
	for _, name := range meta.Names() {
		connectorType := "-"
		state := "-"
		tasks := "-"
		workerID := "-"

		if def := meta.Definition(name); def != nil {
			connectorType = def.Type
			tasks = fmt.Sprintf("%d", len(def.Tasks))
		}
		if status := meta.Status(name); status != nil {
			connectorType = status.Type
			state = stateLabel(status.Connector.State)
			workerID = status.Connector.WorkerID
			tasks = fmt.Sprintf("%d", len(status.Tasks))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", name, connectorType, state, tasks, workerID)
	}
	return w.Flush()
}
