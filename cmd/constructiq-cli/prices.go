package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/TheDeveloper404/ConstructionIQ/internal/pricing"
	"github.com/TheDeveloper404/ConstructionIQ/internal/workflow"
)

func (c *cli) priceHistoryCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "price-history <product-id>",
		Short: "Show observed prices of a catalog product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := requireID(id); err != nil {
				return err
			}
			window := workflow.NormalizeWindow(days)

			history, err := c.client.PriceHistory(cmd.Context(), id, window)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s), last %d days\n", history.Product.CanonicalName,
				workflow.UOMLabel(history.Product.BaseUOM), window)

			stats, ok := pricing.Compute(history.PricePoints)
			if !ok {
				fmt.Fprintln(out, "No price observations in this window.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Latest:\t%.2f\n", stats.Latest)
			fmt.Fprintf(tw, "Average:\t%.2f\n", stats.Average)
			fmt.Fprintf(tw, "Min / Max:\t%.2f / %.2f\n", stats.Min, stats.Max)
			fmt.Fprintf(tw, "Change:\t%s (%s)\n", pricing.FormatChange(stats.ChangePercent), stats.Trend())
			fmt.Fprintf(tw, "Observations:\t%d\n", stats.Count)
			tw.Flush()

			fmt.Fprintln(out)
			tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tPRICE\tUOM\tSUPPLIER\tSOURCE")
			for _, p := range history.PricePoints {
				fmt.Fprintf(tw, "%s\t%s %s\t%s\t%s\t%s\n",
					formatDate(p.ObservedAt),
					strconv.FormatFloat(p.UnitPriceNormalized, 'f', 2, 64), p.Currency,
					workflow.UOMLabel(p.UOMNormalized), orDash(p.SupplierName),
					workflow.SourceLabel(p.SourceType))
			}
			tw.Flush()
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", workflow.DefaultPriceWindow, "Window in days (30, 90, 180 or 365)")
	return cmd
}
