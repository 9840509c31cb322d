package cmd

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"rollerstone-site/internal/pricing"
	"rollerstone-site/pkg/api"
)

var (
	quoteJSON   bool
	quoteRemote string
)

var quoteCmd = &cobra.Command{
	Use:   "quote [area]",
	Short: "Estimate the price for an area in m²",
	Long: `Estimate the tax-inclusive price for an area in square metres.

Input is read the way the estimator form reads it: a leading number is
used and anything else prices as 0 m².

Examples:
  rollerstone quote 35
  rollerstone quote 12.5 --json
  rollerstone quote 40 --remote http://localhost:8080`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if quoteRemote != "" {
			return remoteQuote(cmd, args[0])
		}

		res, _ := pricing.NewQuoter(pricing.NewDefaultPricing(), 1).Quote(args[0])
		if quoteJSON {
			return printJSON(cmd, res)
		}

		printQuote(cmd, res.Area, res.UnitPrice, res.SubtotalFinal, res.Tax, res.Total, res.MinimumApplied,
			pricing.FormatYen(pricing.MinimumSubtotal))
		return nil
	},
}

func init() {
	quoteCmd.Flags().BoolVar(&quoteJSON, "json", false, "print the result as JSON")
	quoteCmd.Flags().StringVar(&quoteRemote, "remote", "", "query a running server instead of computing locally")
}

func remoteQuote(cmd *cobra.Command, area string) error {
	q, err := api.NewClient(quoteRemote, log).Quote(cmd.Context(), area)
	if err != nil {
		return err
	}
	if quoteJSON {
		return printJSON(cmd, q)
	}
	printQuote(cmd, q.Area, q.UnitPrice, q.SubtotalFinal, q.Tax, q.Total, q.MinimumApplied, q.Formatted.Minimum)
	return nil
}

func printQuote(cmd *cobra.Command, area float64, unit int64, subtotal, tax, total float64, minimum bool, minimumLabel string) {
	fmt.Fprintf(cmd.OutOrStdout(), "Area:       %s m²\n", formatArea(area))
	fmt.Fprintf(cmd.OutOrStdout(), "Unit price: %s / m²\n", pricing.FormatPrice(unit))
	fmt.Fprintf(cmd.OutOrStdout(), "Subtotal:   %s\n", pricing.FormatYen(subtotal))
	fmt.Fprintf(cmd.OutOrStdout(), "Tax (10%%):  %s\n", pricing.FormatYen(tax))
	fmt.Fprintf(cmd.OutOrStdout(), "Total:      %s\n", pricing.FormatYen(total))
	if minimum {
		fmt.Fprintf(cmd.OutOrStdout(), "Minimum price of %s (before tax) applied\n", minimumLabel)
	}
}

func formatArea(v float64) string {
	return fmt.Sprintf("%g", v)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	out, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
