package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/txparse/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "txparse",
		Short:   "Turn voice notes and receipt scans into transactions",
		Version: buildinfo.Summary(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: built-in settings)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newInitCommand(),
		newVoiceCommand(opts),
		newReceiptCommand(opts),
		newBatchCommand(opts),
		newTaxonomyCommand(opts),
		newServeCommand(opts),
	)

	return rootCmd
}
