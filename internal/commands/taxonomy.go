package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTaxonomyCommand(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "taxonomy",
		Short: "List categories, keywords and known merchants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaxonomy(cmd.OutOrStdout(), opts, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}

func runTaxonomy(w io.Writer, opts *globalOptions, asJSON bool) error {
	a, err := newApp(opts)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(w, a.tax)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tKEYWORDS")
	for _, name := range a.tax.Names() {
		c, _ := a.tax.Category(name)
		fmt.Fprintf(tw, "%s\t%s\n", c.Name, strings.Join(c.Keywords, ", "))
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "MERCHANT\tCATEGORY")
	for _, m := range a.tax.Merchants {
		fmt.Fprintf(tw, "%s\t%s\n", m.Name, m.Category)
	}
	return tw.Flush()
}
