package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/streamforge/bpctl/internal/catalog"
	"github.com/streamforge/bpctl/internal/descriptor"
	"github.com/streamforge/bpctl/internal/loader"
)

var (
	buildAppID      string
	buildAppVersion string
	buildAgentPaths []string
	buildCatalog    string
	buildStorePath  string
	buildOutputFile string
)

var buildCmd = &cobra.Command{
	Use:   "build [blueprint-file]",
	Short: "Build the application descriptor from a verified blueprint",
	Long: `Verify a blueprint and lower it into an application descriptor.

The descriptor is the deterministic, deployable plan the downstream
orchestrator translates into cluster workloads: deployment records,
endpoint container ports, savepoint port mappings, and secret names.
Building fails if the blueprint does not verify.

Examples:
  # Build a descriptor and print it as YAML
  bpctl build blueprint.yaml --app-id my-app --app-version 1.2.0 --catalog descriptors.yaml

  # Emit JSON to a file, threading in the Prometheus agent jar
  bpctl build blueprint.yaml --app-id my-app -o json --output-file app.json \
    --agent-path prometheus=/opt/agents/prometheus.jar`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		verifyCatalogFile = buildCatalog
		verifyStorePath = buildStorePath

		descriptors, err := loadDescriptors()
		if err != nil {
			return err
		}
		b, err := loader.LoadBlueprint(args[0], descriptors)
		if err != nil {
			return err
		}

		agentPaths, err := parseAgentPaths(buildAgentPaths)
		if err != nil {
			return err
		}

		app, err := descriptor.BuildFromBlueprint(buildAppID, buildAppVersion, b, agentPaths)
		if err != nil {
			var invalid descriptor.InvalidBlueprintError
			if errors.As(err, &invalid) {
				printProblems(invalid.Problems)
				os.Exit(1)
			}
			return err
		}

		data, err := renderDescriptor(app)
		if err != nil {
			return err
		}

		if buildOutputFile != "" {
			return os.WriteFile(buildOutputFile, data, 0644)
		}
		fmt.Print(string(data))
		return nil
	},
}

// parseAgentPaths turns repeated name=path flags into the agent-path map.
func parseAgentPaths(entries []string) (map[string]string, error) {
	paths := make(map[string]string, len(entries))
	for _, entry := range entries {
		name, path, ok := strings.Cut(entry, "=")
		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("invalid agent path %q: expected name=path", entry)
		}
		paths[name] = path
	}
	return paths, nil
}

func renderDescriptor(app *descriptor.ApplicationDescriptor) ([]byte, error) {
	switch output {
	case "json":
		data, err := json.MarshalIndent(app, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal descriptor: %w", err)
		}
		return append(data, '\n'), nil
	case "yaml":
		data, err := yaml.Marshal(app)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal descriptor: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown output format %q: expected yaml or json", output)
	}
}

func init() {
	buildCmd.Flags().StringVar(&buildAppID, "app-id", "", "application id (required; normalized to a DNS-1123 name)")
	buildCmd.Flags().StringVar(&buildAppVersion, "app-version", "0.0.1-snapshot", "application version recorded in the descriptor")
	buildCmd.Flags().StringArrayVar(&buildAgentPaths, "agent-path", nil, "agent path as name=path (repeatable)")
	buildCmd.Flags().StringVar(&buildCatalog, "catalog", "", "streamlet descriptor catalog file")
	buildCmd.Flags().StringVar(&buildStorePath, "store", catalog.DefaultBoltFilePath, "local catalog store path")
	buildCmd.Flags().StringVar(&buildOutputFile, "output-file", "", "write the descriptor to a file instead of stdout")
	buildCmd.MarkFlagRequired("app-id")
	rootCmd.AddCommand(buildCmd)
}
