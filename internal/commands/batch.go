package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/txparse/internal/batch"
)

func newBatchCommand(opts *globalOptions) *cobra.Command {
	var out string
	var move bool

	cmd := &cobra.Command{
		Use:   "batch [inbox]",
		Short: "Parse every transcript (.txt) and OCR file (.json) in a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "inbox"
			if len(args) > 0 {
				dir = args[0]
			}
			return runBatch(cmd, opts, dir, out, move)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write CSV here instead of stdout")
	cmd.Flags().BoolVar(&move, "move", false, "move parsed files to <inbox>/processed")

	return cmd
}

func runBatch(cmd *cobra.Command, opts *globalOptions, dir, out string, move bool) error {
	a, err := newApp(opts)
	if err != nil {
		return err
	}

	r := &batch.Runner{
		Registry: batch.DefaultRegistry(a.voice, a.receipt),
		Move:     move,
		Log:      a.log,
	}
	recs, err := r.Run(cmd.Context(), dir)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}
	if err := batch.WriteRecords(w, recs); err != nil {
		return fmt.Errorf("writing records: %w", err)
	}

	review := 0
	for _, rec := range recs {
		if rec.NeedsReview(a.cfg.Review.MinConfidence) {
			review++
		}
	}
	a.log.Info().Int("records", len(recs)).Int("needs_review", review).Msg("batch complete")
	return nil
}
