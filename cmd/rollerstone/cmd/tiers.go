package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"rollerstone-site/internal/pricing"
)

var tiersArea float64

var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "Print the unit price table",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows := pricing.NewDefaultPricing().TierRows(tiersArea)

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "\tAREA\tUNIT PRICE")
		for _, row := range rows {
			marker := ""
			if row.Current {
				marker = "*"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", marker, row.Label, pricing.FormatPrice(row.Price))
		}
		return tw.Flush()
	},
}

func init() {
	tiersCmd.Flags().Float64Var(&tiersArea, "area", 0, "mark the tier this area falls in")
}
