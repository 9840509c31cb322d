package cmd

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"rollerstone-site/internal/inquiry"
	"rollerstone-site/internal/pricing"
	"rollerstone-site/internal/storage"
)

var inquiriesCmd = &cobra.Command{
	Use:   "inquiries",
	Short: "Look up and update stored inquiries",
}

var inquiriesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Print one inquiry as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withInquiries(cmd, func(svc *inquiry.Service) error {
			inq, err := svc.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd, inq)
		})
	},
}

var inquiriesStatusCmd = &cobra.Command{
	Use:   "status <id> <new|contacted|closed|cancelled>",
	Short: "Change an inquiry's status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withInquiries(cmd, func(svc *inquiry.Service) error {
			return svc.UpdateStatus(cmd.Context(), id, storage.InquiryStatus(args[1]))
		})
	},
}

var inquiriesStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise inquiry counts and quoted totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withInquiries(cmd, func(svc *inquiry.Service) error {
			stats, err := svc.Stats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range []struct {
				label string
				s     storage.PeriodStatistics
			}{
				{"Today", stats.Today},
				{"7 days", stats.Week},
				{"30 days", stats.Month},
				{"All", stats.Total},
			} {
				fmt.Fprintf(out, "%-8s %4d  %s\n", p.label, p.s.Count, pricing.FormatYen(p.s.Amount.InexactFloat64()))
			}
			for _, status := range slices.Sorted(maps.Keys(stats.StatusCounts)) {
				fmt.Fprintf(out, "%-10s %d\n", status, stats.StatusCounts[status])
			}
			return nil
		})
	},
}

func init() {
	inquiriesCmd.AddCommand(inquiriesGetCmd, inquiriesStatusCmd, inquiriesStatsCmd)
}

func withInquiries(cmd *cobra.Command, fn func(svc *inquiry.Service) error) error {
	store, cleanup, err := requireStorage(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	quoter := pricing.NewQuoter(pricing.NewDefaultPricing(), 0)
	svc := inquiry.NewService(store, nil, nil, quoter, cfg.Inquiry, log)
	return fn(svc)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid inquiry id %q", s)
	}
	return id, nil
}
