package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/txparse/internal/model"
	"github.com/cleared-dev/txparse/internal/receipt"
)

func newReceiptCommand(opts *globalOptions) *cobra.Command {
	var asJSON, explain bool

	cmd := &cobra.Command{
		Use:   "receipt <ocr.json>",
		Short: "Parse an OCR result of a receipt",
		Long: "Parse a receipt from an OCR engine's JSON output. The file holds the full\n" +
			"text and, when available, block and token geometry.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReceipt(cmd.OutOrStdout(), opts, args[0], asJSON, explain)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the record as JSON")
	cmd.Flags().BoolVar(&explain, "explain", false, "show candidates, merchant and receipt type")

	return cmd
}

func runReceipt(w io.Writer, opts *globalOptions, path string, asJSON, explain bool) error {
	a, err := newApp(opts)
	if err != nil {
		return err
	}

	in, err := readOCR(path)
	if err != nil {
		return err
	}

	rec := a.receipt.Parse(in)
	if asJSON {
		if explain {
			return writeJSON(w, struct {
				Transaction model.Transaction `json:"transaction"`
				Analysis    receipt.Analysis  `json:"analysis"`
			}{rec, a.receipt.Analyze(in)})
		}
		return writeJSON(w, rec)
	}

	printRecord(w, rec, a.cfg.Review.MinConfidence)
	if explain {
		printAnalysis(w, a.receipt.Analyze(in))
	}
	return nil
}

func readOCR(path string) (receipt.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OCR file: %w", err)
	}
	var ocr model.OCRResult
	if err := json.Unmarshal(data, &ocr); err != nil {
		return nil, fmt.Errorf("decoding OCR file %s: %w", path, err)
	}
	return receipt.FromOCR(ocr), nil
}

func printAnalysis(w io.Writer, a receipt.Analysis) {
	fmt.Fprintln(w)
	if a.Fallback {
		fmt.Fprintln(w, "no geometry: text-only fallback")
		return
	}
	fmt.Fprintf(w, "receipt type: %s\n", a.Type)
	fmt.Fprintf(w, "page:         %.0fx%.0f, avg word height %.1f\n", a.Page.Width, a.Page.Height, a.AvgHeight)
	fmt.Fprintf(w, "merchant:     %s (%s, %s)\n", a.Merchant.Name, a.Merchant.Category, a.Merchant.Source)
	fmt.Fprintln(w, "candidates:")
	for _, c := range a.Candidates {
		fmt.Fprintf(w, "  %-12s score %2d  y %6.0f  confidence %.2f\n", c.Text, c.Score, c.Y, c.Confidence)
	}
}
