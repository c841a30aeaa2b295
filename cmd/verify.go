package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/streamforge/bpctl/internal/blueprint"
	"github.com/streamforge/bpctl/internal/catalog"
	"github.com/streamforge/bpctl/internal/loader"
	"github.com/streamforge/bpctl/internal/watcher"
)

var (
	verifyCatalogFile string
	verifyStorePath   string
	verifyWatch       bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify [blueprint-file]",
	Short: "Verify a blueprint against its streamlet descriptor catalog",
	Long: `Verify a blueprint YAML file before building its descriptor.

This command checks:
- streamlet ref names and class names
- that every ref resolves to a descriptor in the catalog
- connection port paths, schema compatibility, and fan-in legality
- descriptor config parameters and volume mounts
- that every inlet has an incoming connection

The descriptor catalog is read from the file given with --catalog, or
from the local catalog store when no file is given.

Examples:
  # Verify against a catalog file
  bpctl verify blueprint.yaml --catalog descriptors.yaml

  # Verify against the local catalog store, re-running on changes
  bpctl verify blueprint.yaml --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		blueprintFile := "blueprint.yaml"
		if len(args) > 0 {
			blueprintFile = args[0]
		}
		if _, err := os.Stat(blueprintFile); err != nil {
			return fmt.Errorf("blueprint file not found: %s", blueprintFile)
		}

		run := func(string) error {
			problems, err := verifyOnce(blueprintFile)
			if err != nil {
				return err
			}
			printProblems(problems)
			if !verifyWatch && len(problems) > 0 {
				os.Exit(1)
			}
			return nil
		}

		if err := run(blueprintFile); err != nil {
			return err
		}

		if verifyWatch {
			w, err := watcher.New(run)
			if err != nil {
				return err
			}
			defer w.Close()

			paths := []string{blueprintFile}
			if verifyCatalogFile != "" {
				paths = append(paths, verifyCatalogFile)
			}
			if err := w.Watch(paths...); err != nil {
				return err
			}
			select {}
		}
		return nil
	},
}

// verifyOnce loads the catalog and blueprint and runs verification.
func verifyOnce(blueprintFile string) ([]blueprint.Problem, error) {
	descriptors, err := loadDescriptors()
	if err != nil {
		return nil, err
	}
	b, err := loader.LoadBlueprint(blueprintFile, descriptors)
	if err != nil {
		return nil, err
	}
	return b.Verify().Problems(), nil
}

// loadDescriptors reads the catalog file when given, or the local store.
func loadDescriptors() ([]blueprint.StreamletDescriptor, error) {
	if verifyCatalogFile != "" {
		return loader.LoadCatalog(verifyCatalogFile)
	}

	store := catalog.NewBoltStore(&catalog.BoltOptions{Path: verifyStorePath})
	if err := store.Open(); err != nil {
		return nil, err
	}
	defer store.Close()
	return store.List(context.Background())
}

// printProblems renders the verification result, one problem per line.
func printProblems(problems []blueprint.Problem) {
	if len(problems) == 0 {
		color.Green("✓ blueprint verification passed")
		return
	}
	color.Red("✗ blueprint verification failed with %d problem(s)", len(problems))
	for _, p := range problems {
		fmt.Printf("  %s: %s\n", color.RedString(string(p.Severity())), p.Message())
	}
}

func init() {
	verifyCmd.Flags().StringVar(&verifyCatalogFile, "catalog", "", "streamlet descriptor catalog file")
	verifyCmd.Flags().StringVar(&verifyStorePath, "store", catalog.DefaultBoltFilePath, "local catalog store path")
	verifyCmd.Flags().BoolVar(&verifyWatch, "watch", false, "re-verify when the blueprint or catalog file changes")
	rootCmd.AddCommand(verifyCmd)
}
