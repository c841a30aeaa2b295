package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/streamforge/bpctl/internal/catalog"
	"github.com/streamforge/bpctl/internal/loader"
)

var catalogStorePath string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the local streamlet descriptor catalog",
	Long: `Manage the local streamlet descriptor catalog store.

Descriptors added here are used as the verification catalog by
'bpctl verify' and 'bpctl build' when no --catalog file is given.`,
}

var catalogAddCmd = &cobra.Command{
	Use:   "add [catalog-file]",
	Short: "Add the descriptors from a catalog file to the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		descriptors, err := loader.LoadCatalog(args[0])
		if err != nil {
			return err
		}
		return withStore(func(store catalog.Store) error {
			for _, d := range descriptors {
				if err := store.Put(context.Background(), d); err != nil {
					return err
				}
			}
			fmt.Printf("added %d descriptor(s)\n", len(descriptors))
			return nil
		})
	},
}

var catalogGetCmd = &cobra.Command{
	Use:   "get [class-name]",
	Short: "Print one descriptor from the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store catalog.Store) error {
			d, err := store.Get(context.Background(), args[0])
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(d)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		})
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the descriptors in the store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store catalog.Store) error {
			descriptors, err := store.List(context.Background())
			if err != nil {
				return err
			}
			if len(descriptors) == 0 {
				fmt.Println("the catalog store is empty")
				return nil
			}
			for _, d := range descriptors {
				fmt.Printf("%s\truntime=%s\tinlets=%d\toutlets=%d\n",
					d.ClassName, d.Runtime, len(d.Shape.Inlets), len(d.Shape.Outlets))
			}
			return nil
		})
	},
}

var catalogRemoveCmd = &cobra.Command{
	Use:   "remove [class-name]",
	Short: "Remove a descriptor from the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store catalog.Store) error {
			if err := store.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("removed %s\n", args[0])
			return nil
		})
	},
}

// withStore opens the local store, runs fn, and closes it.
func withStore(fn func(catalog.Store) error) error {
	store := catalog.NewBoltStore(&catalog.BoltOptions{Path: catalogStorePath})
	if err := store.Open(); err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func init() {
	catalogCmd.PersistentFlags().StringVar(&catalogStorePath, "store", catalog.DefaultBoltFilePath, "local catalog store path")
	catalogCmd.AddCommand(catalogAddCmd)
	catalogCmd.AddCommand(catalogGetCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogRemoveCmd)
	rootCmd.AddCommand(catalogCmd)
}
