// Package cli implements the kconnect command line tool, a thin operator
// console over the Kafka Connect REST API. Commands map one to one onto
// worker operations; manifests make deployments repeatable.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/NashTech-Labs/kafka-connect-client/internal/common/logtrace"
	"github.com/NashTech-Labs/kafka-connect-client/pkg/connect"
)

var (
	// Global flags
	jsonOutput bool
	debugMode  bool
	configFile string
)

var ErrAlreadyHandled = errors.New("already handled")

var okLabel = color.New(color.FgGreen)
var errorLabel = color.New(color.FgRed)
var warnLabel = color.New(color.FgYellow)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kconnect [command] [flags]",
	Short: "kconnect - A command line interface for managing Kafka Connect connectors",
	Long: `kconnect is a command line interface for a Kafka Connect cluster's REST API.
It deploys, inspects, and controls connectors and their tasks, and validates
connector configurations against the worker's installed plugins.

Examples:
  # Deploy or update connectors from a manifest
  kconnect apply -f connectors.yaml

  # List connectors with their status
  kconnect list --expand status

  # Inspect one connector
  kconnect status my-connector

  # Restart a connector and wait for it to come back
  kconnect restart my-connector --wait`,
	PersistentPreRun: preRunHandlePersistents,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	// Set up persistent flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "", "", "Path to configuration file to override default")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&debugMode, "debug", "", false, "Log requests to stderr")

	rootCmd.AddCommand(newVersionCmd())
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SilenceErrors = true // Prevent Cobra from printing the error
	rootCmd.SilenceUsage = true  // Prevent Cobra from printing usage on error

	err := rootCmd.Execute()
	if err != nil {
		if errors.Is(err, ErrAlreadyHandled) {
			os.Exit(1)
		}
		if jsonOutput {
			kv := map[string]string{
				"error": err.Error(),
			}
			printJSON(kv)
		} else {
			errorLabel.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// preRunHandlePersistents handles persistent flags and configuration loading before command execution
func preRunHandlePersistents(cmd *cobra.Command, args []string) {
	logtrace.InitLogger()
	logtrace.SetDebug(debugMode)

	if configFile == "" {
		var err error
		configFile, err = GetDefaultConfigPath()
		if err != nil {
			errorLabel.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	// config and version work without a cluster configuration.
	isConfig := false
	c := cmd
	for c != nil {
		if c.Name() == "config" || c.Name() == "version" {
			isConfig = true
			break
		}
		c = c.Parent()
	}

	if !isConfig {
		if err := LoadConfig(configFile); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				fmt.Println("kconnect config file not found. Configure kconnect with \"kconnect config init --server <url>\" first.")
				os.Exit(1)
			} else {
				fmt.Printf("%s\n", err.Error())
				os.Exit(1)
			}
		}
	}
}

// newVersionCmd creates and returns a new version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of kconnect and of the configured worker",
		Run: func(cmd *cobra.Command, args []string) {
			configPath, err := GetDefaultConfigPath()
			if err != nil {
				configPath = "unknown"
			}
			if configFile != "" {
				configPath = configFile
			}

			kv := map[string]string{
				"version":     getCLIVersion(),
				"config_file": configPath,
			}

			// Worker version is best effort: the command still works
			// before any cluster is configured.
			if err := LoadConfig(configPath); err == nil {
				if version, err := newConnectClient().ServerVersion(cmd.Context()); err == nil {
					kv["worker_version"] = version.Version
					kv["kafka_cluster_id"] = version.KafkaClusterID
				}
			}

			if jsonOutput {
				printJSON(kv)
				return
			}
			cmd.Printf("kconnect %s\n", getCLIVersion())
			cmd.Printf("Config file: %s\n", configPath)
			if v, ok := kv["worker_version"]; ok {
				cmd.Printf("Worker version: %s\n", v)
				cmd.Printf("Kafka cluster: %s\n", kv["kafka_cluster_id"])
			}
		},
	}
}

// printJSON prints the given map as JSON to stdout
func printJSON(data interface{}) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(jsonData))
}

// warnVersionGate prints a warning when the worker predates the feature a
// command is about to use. Detection is best effort: the request proceeds
// either way and the worker stays the authority on what it supports.
func warnVersionGate(cmd *cobra.Command, client *connect.Client, feature, minVersion string, supported func(connect.ServerVersion) bool) {
	version, err := client.ServerVersion(cmd.Context())
	if err != nil || supported(version) {
		return
	}
	warnLabel.Fprintf(os.Stderr, "Warning: ")
	fmt.Fprintf(os.Stderr, "%s requires Kafka Connect %s or newer, worker reports %s\n",
		feature, minVersion, version.Version)
}

// stateLabel colors a connector or task state the way operators expect:
// green for running, yellow for paused or unassigned, red for failed.
func stateLabel(state string) string {
	switch state {
	case "RUNNING":
		return okLabel.Sprint(state)
	case "PAUSED", "UNASSIGNED":
		return warnLabel.Sprint(state)
	case "FAILED":
		return errorLabel.Sprint(state)
	}
	return state
}

// getCLIVersion returns the current CLI version
func getCLIVersion() string {
	return "v0.1.0-alpha.1"
}
