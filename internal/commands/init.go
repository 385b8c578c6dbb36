package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/txparse/internal/batch"
	"github.com/cleared-dev/txparse/internal/config"
	"github.com/cleared-dev/txparse/internal/taxonomy"
)

const (
	configFile   = "txparse.yaml"
	taxonomyFile = "taxonomy.yaml"
	inboxDir     = "inbox"
)

func newInitCommand() *cobra.Command {
	var withTaxonomy bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a config file and an inbox for batch parsing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir, withTaxonomy); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized txparse in %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&withTaxonomy, "taxonomy", false, "also write an editable copy of the built-in taxonomy")

	return cmd
}

func runInit(dir string, withTaxonomy bool) error {
	cfgPath := filepath.Join(dir, configFile)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	if err := os.MkdirAll(filepath.Join(dir, inboxDir, batch.ProcessedDir), 0o755); err != nil {
		return fmt.Errorf("creating inbox: %w", err)
	}

	cfg := config.Default()
	if withTaxonomy {
		path := filepath.Join(dir, taxonomyFile)
		if err := os.WriteFile(path, taxonomy.DefaultYAML(), 0o644); err != nil {
			return fmt.Errorf("writing taxonomy: %w", err)
		}
		cfg.Taxonomy.Path = path
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
