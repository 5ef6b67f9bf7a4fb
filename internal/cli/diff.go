package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/anand-gl/jsoncanonicalizer"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/NashTech-Labs/kafka-connect-client/pkg/connect"
)

// diffCmd represents the diff command
var diffCmd = &cobra.Command{
	Use:   "diff -f FILENAME [flags]",
	Short: "Diff connector manifests against deployed configuration",
	Long: `Diff connector manifests against the configuration currently deployed
on the worker. Keys the worker adds on its own, such as name, are ignored
when they are absent from the manifest.

Examples:
  # Show what apply would change
  kconnect diff -f connector.yaml`,
	RunE: diffManifests,
}

// keyDiff is the per-key outcome of comparing a manifest to the deployed
// configuration
type keyDiff struct {
	Key      string `json:"key"`
	Action   string `json:"action"`
	Deployed string `json:"deployed,omitempty"`
	Manifest string `json:"manifest,omitempty"`
}

// connectorDiff is the diff result for one manifest
type connectorDiff struct {
	Name    string    `json:"name"`
	Missing bool      `json:"missing,omitempty"`
	InSync  bool      `json:"in_sync"`
	Changes []keyDiff `json:"changes,omitempty"`
}

// diffManifests compares every manifest in a file with the worker state
func diffManifests(cmd *cobra.Command, args []string) error {
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

	var diffs []connectorDiff
	for _, manifest := range manifests {
		diff, err := diffManifest(cmd, client, manifest)
		if err != nil {
			return err
		}
		diffs = append(diffs, diff)
	}

	if jsonOutput {
		printJSON(diffs)
		return nil
	}
	for _, diff := range diffs {
		printConnectorDiff(diff)
	}
	return nil
}

// diffManifest compares one manifest with the deployed configuration
func diffManifest(cmd *cobra.Command, client *connect.Client, manifest ConnectorManifest) (connectorDiff, error) {
	diff := connectorDiff{Name: manifest.Name}

	deployed, err := client.ConnectorConfig(cmd.Context(), manifest.Name)
	if err != nil {
		var notFound *connect.NotFoundError
		if errors.As(err, &notFound) {
			diff.Missing = true
			return diff, nil
		}
		return diff, err
	}

	same, err := configsEquivalent(deployed, manifest.Config)
	if err != nil {
		return diff, err
	}
	if same {
		diff.InSync = true
		return diff, nil
	}

	diff.Changes = computeKeyDiffs(deployed, manifest.Config)
	diff.InSync = len(diff.Changes) == 0
	return diff, nil
}

// computeKeyDiffs walks the union of keys in sorted order and records the
// added, removed, and changed entries. The worker-injected name key is
// skipped when the manifest does not set it.
func computeKeyDiffs(deployed, manifest map[string]string) []keyDiff {
	keys := make(map[string]struct{})
	for key := range deployed {
		keys[key] = struct{}{}
	}
	for key := range manifest {
		keys[key] = struct{}{}
	}
	sorted := make([]string, 0, len(keys))
	for key := range keys {
		sorted = append(sorted, key)
	}
	sort.Strings(sorted)

	var changes []keyDiff
	for _, key := range sorted {
		deployedValue, inDeployed := deployed[key]
		manifestValue, inManifest := manifest[key]
		switch {
		case !inManifest:
			if key == "name" {
				continue
			}
			changes = append(changes, keyDiff{Key: key, Action: "removed", Deployed: deployedValue})
		case !inDeployed:
			changes = append(changes, keyDiff{Key: key, Action: "added", Manifest: manifestValue})
		case deployedValue != manifestValue:
			changes = append(changes, keyDiff{Key: key, Action: "changed", Deployed: deployedValue, Manifest: manifestValue})
		}
	}
	return changes
}

// configsEquivalent reports whether two configurations canonicalize to the
// same JSON document, ignoring the worker-injected name key
func configsEquivalent(deployed, manifest map[string]string) (bool, error) {
	left := make(map[string]string, len(deployed))
	for key, value := range deployed {
		if key == "name" {
			if _, ok := manifest[key]; !ok {
				continue
			}
		}
		left[key] = value
	}

	leftJSON, err := json.Marshal(left)
	if err != nil {
		return false, err
	}
	rightJSON, err := json.Marshal(manifest)
	if err != nil {
		return false, err
	}
	leftCanonical, err := jsoncanonicalizer.Transform(leftJSON)
	if err != nil {
		return false, err
	}
	rightCanonical, err := jsoncanonicalizer.Transform(rightJSON)
	if err != nil {
		return false, err
	}
	return bytes.Equal(leftCanonical, rightCanonical), nil
}

// printConnectorDiff prints one connector's diff in a human-readable form
func printConnectorDiff(diff connectorDiff) {
	switch {
	case diff.Missing:
		warnLabel.Printf("[NEW] ")
		fmt.Printf("%s is not deployed\n", diff.Name)
	case diff.InSync:
		okLabel.Printf("[OK] ")
		fmt.Printf("%s is in sync\n", diff.Name)
	default:
		warnLabel.Printf("[DIFF] ")
		fmt.Printf("%s\n", diff.Name)
		for _, change := range diff.Changes {
			switch change.Action {
			case "added":
				color.New(color.FgGreen).Printf("  + %s = %s\n", change.Key, change.Manifest)
			case "removed":
				color.New(color.FgRed).Printf("  - %s = %s\n", change.Key, change.Deployed)
			case "changed":
				color.New(color.FgYellow).Printf("  ~ %s = %s (deployed: %s)\n", change.Key, change.Manifest, change.Deployed)
			}
		}
	}
}

// init initializes the diff command with its flags and adds it to the root command
func init() {
	diffCmd.Flags().StringP("filename", "f", "", "Filename of the connector manifest to diff")
	diffCmd.MarkFlagRequired("filename")

	rootCmd.AddCommand(diffCmd)
}
