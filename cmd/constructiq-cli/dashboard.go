package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/TheDeveloper404/ConstructionIQ/internal/forms"
	"github.com/TheDeveloper404/ConstructionIQ/internal/pricing"
	"github.com/TheDeveloper404/ConstructionIQ/internal/workflow"
)

func (c *cli) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show counters and recent activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := c.client.DashboardStats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Projects:\t%d\n", stats.ProjectsCount)
			fmt.Fprintf(tw, "Suppliers:\t%d\n", stats.SuppliersCount)
			fmt.Fprintf(tw, "RFQs:\t%d\n", stats.RFQsCount)
			fmt.Fprintf(tw, "Quotes:\t%d\n", stats.QuotesCount)
			fmt.Fprintf(tw, "Active alerts:\t%d\n", stats.ActiveAlerts)
			tw.Flush()

			if len(stats.RecentRFQs) > 0 {
				fmt.Fprintln(out, "\nRecent RFQs:")
				for _, r := range stats.RecentRFQs {
					fmt.Fprintf(out, "  %s  %-40s  %s\n", r.ID, truncate(r.Title, 40), workflow.StatusLabel(r.Status))
				}
			}
			if len(stats.RecentQuotes) > 0 {
				fmt.Fprintln(out, "\nRecent quotes:")
				for _, q := range stats.RecentQuotes {
					fmt.Fprintf(out, "  %s  %-30s  %s\n", q.ID, truncate(orDash(q.SupplierName), 30),
						forms.FormatMoney(forms.SumLines(q.Items), q.Currency))
				}
			}
			if len(stats.RecentAlerts) > 0 {
				fmt.Fprintln(out, "\nRecent alerts:")
				for _, e := range stats.RecentAlerts {
					fmt.Fprintf(out, "  %s  %-8s  %-30s  %s\n", e.ID, workflow.SeverityLabel(e.Severity),
						truncate(orDash(e.ProductName), 30), pricing.FormatChange(e.Payload.ChangePercent))
				}
			}
			return nil
		},
	}
}

func (c *cli) demoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Inspect or reset the demo environment",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show whether the backend runs in demo mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := c.client.DemoStatus(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !status.DemoMode {
				fmt.Fprintln(out, "Demo mode: off")
				return nil
			}
			fmt.Fprintln(out, "Demo mode: on")
			fmt.Fprintf(out, "Org:  %s\n", orDash(status.DemoOrgID))
			fmt.Fprintf(out, "User: %s\n", orDash(status.DemoUserID))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restore the demo data set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := c.client.DemoStatus(cmd.Context())
			if err != nil {
				return err
			}
			if !status.DemoMode {
				return fmt.Errorf("demo mode is off, nothing to reset")
			}
			if err := c.confirm(cmd, "Reset all demo data?"); err != nil {
				return err
			}

			msg, err := c.client.ResetDemo(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), orDash(msg.Message))
			return nil
		},
	})

	return cmd
}
