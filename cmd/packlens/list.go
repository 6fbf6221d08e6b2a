package main

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"packlens"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the packs in the repository",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := packlens.LoadConfiguration(flagRoot)
		if err != nil {
			return err
		}
		for _, pack := range cfg.PackSet.Packs {
			fmt.Println(pack.Yml)
		}
		return nil
	},
}

var listDefinitionsCmd = &cobra.Command{
	Use:   "list-definitions",
	Short: "List every known constant and the file that defines it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, cfg, err := newEngine()
		if err != nil {
			return err
		}
		defer engine.Close()

		definitions, err := engine.ListDefinitions(cmd.Context())
		if err != nil {
			return err
		}

		names := make([]string, 0, len(definitions))
		for name := range definitions {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			rel, relErr := filepath.Rel(cfg.AbsoluteRoot, definitions[name])
			if relErr != nil {
				rel = definitions[name]
			}
			fmt.Printf("%s is defined at %s\n", name, rel)
		}
		return nil
	},
}

var deleteCacheCmd = &cobra.Command{
	Use:   "delete-cache",
	Short: "Delete the per-file result cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := packlens.LoadConfiguration(flagRoot)
		if err != nil {
			return err
		}
		return packlens.DeleteCache(cfg)
	},
}
