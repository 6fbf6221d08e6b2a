package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"packlens"
)

var (
	flagRoot               string
	flagVerbose            bool
	flagNoCache            bool
	flagExperimentalParser bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "packlens",
	Short:         "Constant-level dependency analysis for packaged Ruby codebases",
	Long:          "packlens parses Ruby source with tree-sitter, resolves every constant reference to its defining file, and reports references that cross pack boundaries without a declared dependency.",
	SilenceErrors: true,
	SilenceUsage:  true,
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", ".", "repository root")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log skipped files and nodes")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "disable the per-file result cache")
	rootCmd.PersistentFlags().BoolVar(&flagExperimentalParser, "experimental-parser", false, "resolve against parsed definitions instead of file paths")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(listDefinitionsCmd)
	rootCmd.AddCommand(deleteCacheCmd)
}

// newEngine loads configuration and builds an Engine honoring the
// global flags.
func newEngine() (*packlens.Engine, *packlens.Configuration, error) {
	cfg, err := packlens.LoadConfiguration(flagRoot)
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}
	if flagNoCache {
		cfg.CacheEnabled = false
	}
	if flagExperimentalParser {
		cfg.ExperimentalParser = true
	}

	var opts []packlens.Option
	if flagVerbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		opts = append(opts, packlens.WithLogger(logger))
	}

	engine, err := packlens.New(cfg, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("creating engine: %w", err)
	}
	return engine, cfg, nil
}
