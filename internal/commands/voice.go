package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/txparse/internal/model"
)

func newVoiceCommand(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "voice <text...>",
		Short: "Parse a spoken or typed expense",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVoice(cmd.OutOrStdout(), opts, strings.Join(args, " "), asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the record as JSON")

	return cmd
}

func runVoice(w io.Writer, opts *globalOptions, text string, asJSON bool) error {
	a, err := newApp(opts)
	if err != nil {
		return err
	}

	rec := a.voice.Parse(text)
	if asJSON {
		return writeJSON(w, rec)
	}
	printRecord(w, rec, a.cfg.Review.MinConfidence)
	return nil
}

func printRecord(w io.Writer, rec model.Transaction, minConfidence float64) {
	fmt.Fprintf(w, "type:        %s\n", rec.Type)
	fmt.Fprintf(w, "amount:      %s\n", rec.Amount.StringFixed(2))
	fmt.Fprintf(w, "category:    %s\n", rec.Category)
	fmt.Fprintf(w, "description: %s\n", rec.Description)
	fmt.Fprintf(w, "date:        %s\n", rec.Date)
	fmt.Fprintf(w, "confidence:  %.2f\n", rec.Confidence)
	if rec.NeedsReview(minConfidence) {
		fmt.Fprintln(w, "review:      needed")
	}
}
