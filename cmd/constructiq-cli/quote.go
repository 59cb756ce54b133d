package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
	"github.com/TheDeveloper404/ConstructionIQ/internal/forms"
	"github.com/TheDeveloper404/ConstructionIQ/internal/listing"
	"github.com/TheDeveloper404/ConstructionIQ/internal/workflow"
)

func (c *cli) quoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Update, map and compare supplier quotes",
	}
	cmd.AddCommand(c.quoteStatusCmd(), c.quoteMapItemCmd(), c.quoteCompareCmd())
	return cmd
}

func (c *cli) quoteStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <quote-id> <status>",
		Short: "Set the status of a quote",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, status := args[0], args[1]
			if err := requireID(id); err != nil {
				return err
			}
			if !workflow.IsValid(workflow.QuoteStatuses, status) {
				return fmt.Errorf("invalid status %q (use one of: %s)", status, optionValues(workflow.QuoteStatuses))
			}

			q, err := c.client.UpdateQuoteStatus(cmd.Context(), id, status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Quote %s is now %s\n", id, workflow.StatusLabel(q.Status))
			return nil
		},
	}
}

// quoteMapItemCmd links a quote line to a catalog product and prints the
// refreshed lines.
func (c *cli) quoteMapItemCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "map-item <quote-id> <item-id> <product-id>",
		Short: "Link a quote line to a catalog product",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			quoteID, itemID, productID := args[0], args[1], args[2]
			for _, id := range args {
				if err := requireID(id); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			detail := listing.NewDetail(c.client.GetQuote)
			q, err := detail.Load(ctx, quoteID)
			if err != nil {
				return err
			}
			item, ok := q.Item(itemID)
			if !ok {
				return fmt.Errorf("quote %s has no item %s", quoteID, itemID)
			}
			if item.IsMapped() {
				return fmt.Errorf("item %s is already mapped to product %s", itemID, *item.NormalizedProductID)
			}

			if err := c.client.MapQuoteItem(ctx, quoteID, itemID, productID); err != nil {
				return err
			}
			q, err = detail.Reload(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Mapped item %s to product %s\n", itemID, productID)
			printQuoteLines(out, q)
			return nil
		},
	}
}

func printQuoteLines(out io.Writer, q *api.Quote) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tLINE\tQTY\tUOM\tUNIT PRICE\tTOTAL\tPRODUCT")
	for _, item := range q.Items {
		product := "-"
		if item.IsMapped() {
			product = *item.NormalizedProductID
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			item.ID, truncate(item.RawLineText, 40),
			strconv.FormatFloat(item.Qty, 'f', -1, 64), workflow.UOMLabel(item.UOM),
			decimal.NewFromFloat(item.UnitPrice).StringFixed(2),
			forms.FormatMoney(forms.LineTotal(item), q.Currency), product)
	}
	tw.Flush()
}

func (c *cli) quoteCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <quote-id> <quote-id>...",
		Short: "Compare the totals of two or more quotes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := forms.Dedupe(args)
			if len(ids) < 2 {
				return fmt.Errorf("select at least 2 quotes to compare")
			}
			for _, id := range ids {
				if err := requireID(id); err != nil {
					return err
				}
			}

			quotes, err := c.client.CompareQuotes(cmd.Context(), ids)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			best := -1
			var bestTotal decimal.Decimal
			totals := make([]decimal.Decimal, len(quotes))
			for i, q := range quotes {
				totals[i] = forms.SumLines(q.Items)
				if best < 0 || totals[i].LessThan(bestTotal) {
					best, bestTotal = i, totals[i]
				}
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "QUOTE\tSUPPLIER\tITEMS\tPAYMENT\tDELIVERY\tTOTAL\t")
			for i, q := range quotes {
				mark := ""
				if i == best {
					mark = "best"
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
					q.ID, truncate(orDash(q.SupplierName), 30), len(q.Items),
					orDash(q.PaymentTerms), orDash(q.DeliveryTerms),
					forms.FormatMoney(totals[i], q.Currency), mark)
			}
			tw.Flush()
			return nil
		},
	}
}
