package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/NashTech-Labs/kafka-connect-client/pkg/connect"
)

var (
	// Lifecycle command flags
	lifecycleWait    bool
	lifecycleRetries uint
)

// pauseCmd represents the pause command
var pauseCmd = &cobra.Command{
	Use:   "pause <connector>",
	Short: "Pause a connector and its tasks",
	Long: `Pause a connector and its tasks. The worker acknowledges the request
asynchronously; use --wait to poll until every task reports PAUSED.

Examples:
  # Pause a connector
  kconnect pause my-connector

  # Pause a connector and wait for it to settle
  kconnect pause my-connector --wait`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newConnectClient()
		if _, err := client.PauseConnector(cmd.Context(), args[0]); err != nil {
			return err
		}
		if lifecycleWait {
			if err := waitForConnectorState(cmd.Context(), client, args[0], connect.StatePaused); err != nil {
				return err
			}
		}
		fmt.Printf("Paused %s\n", args[0])
		return nil
	},
}

// resumeCmd represents the resume command
var resumeCmd = &cobra.Command{
	Use:   "resume <connector>",
	Short: "Resume a paused connector",
	Long: `Resume a paused connector. The worker acknowledges the request
asynchronously; use --wait to poll until every task reports RUNNING.

Examples:
  # Resume a connector
  kconnect resume my-connector

  # Resume a connector and wait for it to settle
  kconnect resume my-connector --wait`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newConnectClient()
		if _, err := client.ResumeConnector(cmd.Context(), args[0]); err != nil {
			return err
		}
		if lifecycleWait {
			if err := waitForConnectorState(cmd.Context(), client, args[0], connect.StateRunning); err != nil {
				return err
			}
		}
		fmt.Printf("Resumed %s\n", args[0])
		return nil
	},
}

// restartCmd represents the restart command
var restartCmd = &cobra.Command{
	Use:   "restart <connector>",
	Short: "Restart a connector",
	Long: `Restart a connector. Running tasks are not interrupted unless they
already failed; use --wait to poll until the connector reports RUNNING.

Examples:
  # Restart a connector
  kconnect restart my-connector

  # Restart a connector and wait for it to settle
  kconnect restart my-connector --wait`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newConnectClient()
		if _, err := client.RestartConnector(cmd.Context(), args[0]); err != nil {
			return err
		}
		if lifecycleWait {
			if err := waitForConnectorState(cmd.Context(), client, args[0], connect.StateRunning); err != nil {
				return err
			}
		}
		fmt.Printf("Restarted %s\n", args[0])
		return nil
	},
}

// waitForConnectorState polls the connector status until the connector and
// all of its tasks report the wanted state
func waitForConnectorState(ctx context.Context, client *connect.Client, name string, want string) error {
	return retry.Do(
		func() error {
			status, err := client.ConnectorStatus(ctx, name)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			if status.Connector.State != want {
				return fmt.Errorf("connector %s is %s, waiting for %s", name, status.Connector.State, want)
			}
			for _, task := range status.Tasks {
				if task.State != want {
					return fmt.Errorf("task %d of %s is %s, waiting for %s", task.ID, name, task.State, want)
				}
			}
			return nil
		},
		retry.Attempts(lifecycleRetries),
		retry.Delay(1*time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Debug().Msgf("waiting for %s to reach %s... (%d/%d)", name, want, n+1, lifecycleRetries)
		}),
	)
}

// init initializes the lifecycle commands with their flags and adds them to the root command
func init() {
	for _, cmd := range []*cobra.Command{pauseCmd, resumeCmd, restartCmd} {
		cmd.Flags().BoolVarP(&lifecycleWait, "wait", "w", false, "Wait until the connector settles in the target state")
		cmd.Flags().UintVar(&lifecycleRetries, "retries", 5, "Polling attempts when waiting")
		rootCmd.AddCommand(cmd)
	}
}
