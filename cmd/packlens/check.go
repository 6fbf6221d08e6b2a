package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report cross-pack references that violate declared dependencies",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	engine, cfg, err := newEngine()
	if err != nil {
		return err
	}
	defer engine.Close()

	violations, err := engine.Check(cmd.Context())
	if err != nil {
		return err
	}

	for _, v := range violations {
		file, relErr := filepath.Rel(cfg.AbsoluteRoot, v.ReferencingFile)
		if relErr != nil {
			file = v.ReferencingFile
		}
		if v.Location.Unknown() {
			fmt.Printf("%s: %s referenced without a dependency on %s\n",
				file, v.ConstantName, v.DefiningPack)
			continue
		}
		fmt.Printf("%s:%d:%d: %s referenced without a dependency on %s\n",
			file, v.Location.StartRow, v.Location.StartCol, v.ConstantName, v.DefiningPack)
	}

	if len(violations) > 0 {
		return fmt.Errorf("%d violation(s) found", len(violations))
	}
	fmt.Println("No violations found.")
	return nil
}
