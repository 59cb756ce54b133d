package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/TheDeveloper404/ConstructionIQ/internal/forms"
	"github.com/TheDeveloper404/ConstructionIQ/internal/listing"
	"github.com/TheDeveloper404/ConstructionIQ/internal/workflow"
)

func (c *cli) alertsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Manage price alert rules and events",
	}
	cmd.AddCommand(
		c.alertRulesCmd(),
		c.alertCreateRuleCmd(),
		c.alertToggleCmd(),
		c.alertDeleteRuleCmd(),
		c.alertEventsCmd(),
		c.alertAckCmd(),
	)
	return cmd
}

func (c *cli) alertRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List alert rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := c.client.ListAlertRules(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(rules) == 0 {
				fmt.Fprintln(out, "No alert rules.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tTYPE\tTHRESHOLD\tLAST N\tACTIVE")
			for _, r := range rules {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s%%\t%d\t%s\n",
					r.ID, truncate(r.Name, 40), workflow.RuleTypeLabel(r.Type),
					strconv.FormatFloat(r.Params.ThresholdPercent, 'f', -1, 64),
					r.Params.CompareLastN, yesNo(r.IsActive))
			}
			tw.Flush()
			return nil
		},
	}
}

func (c *cli) alertCreateRuleCmd() *cobra.Command {
	form := forms.NewAlertRuleForm()
	var inactive bool

	cmd := &cobra.Command{
		Use:   "create-rule",
		Short: "Create a price alert rule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(form.Name) == "" {
				return fmt.Errorf("--name is required")
			}
			if !workflow.IsValid(workflow.RuleTypes, form.Type) {
				return fmt.Errorf("invalid type %q (use one of: %s)", form.Type, optionValues(workflow.RuleTypes))
			}
			form.IsActive = !inactive

			rule, err := c.client.CreateAlertRule(cmd.Context(), form.AlertRule())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created rule %s (%s)\n", rule.ID, rule.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Name, "name", "", "Rule name")
	cmd.Flags().StringVar(&form.Type, "type", form.Type, "Rule type ("+optionValues(workflow.RuleTypes)+")")
	cmd.Flags().Float64Var(&form.ThresholdPercent, "threshold", form.ThresholdPercent, "Change threshold in percent")
	cmd.Flags().IntVar(&form.CompareLastN, "last-n", form.CompareLastN, "Number of previous prices to compare against")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "Create the rule disabled")
	return cmd
}

func (c *cli) alertToggleCmd() *cobra.Command {
	var active bool

	cmd := &cobra.Command{
		Use:   "toggle <rule-id>",
		Short: "Enable or disable an alert rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := requireID(id); err != nil {
				return err
			}

			rule, err := c.client.UpdateAlertRule(cmd.Context(), id, map[string]any{"is_active": active})
			if err != nil {
				return err
			}
			state := "disabled"
			if rule.IsActive {
				state = "enabled"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rule %s %s\n", rule.Name, state)
			return nil
		},
	}

	cmd.Flags().BoolVar(&active, "active", true, "Whether the rule is active")
	return cmd
}

func (c *cli) alertDeleteRuleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-rule <rule-id>",
		Short: "Delete an alert rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := requireID(id); err != nil {
				return err
			}
			if err := c.confirm(cmd, fmt.Sprintf("Delete alert rule %s?", id)); err != nil {
				return err
			}
			if err := c.client.DeleteAlertRule(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted alert rule %s\n", id)
			return nil
		},
	}
}

func (c *cli) alertEventsCmd() *cobra.Command {
	var status string
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List alert events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filters := map[string]string{}
			if status != "" && status != "all" {
				if !workflow.IsValid(workflow.EventStatuses, status) {
					return fmt.Errorf("invalid status %q (use one of: %s)", status, optionValues(workflow.EventStatuses))
				}
				filters["status"] = status
			}
			coll, err := c.lookupCollection("events")
			if err != nil {
				return err
			}
			return coll.list(cmd.Context(), cmd.OutOrStdout(), filters, page, pageSize)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Status filter ("+optionValues(workflow.EventStatuses)+")")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", listing.DefaultPageSize, "Rows per page")
	return cmd
}

func (c *cli) alertAckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ack <event-id>",
		Short: "Acknowledge an alert event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := requireID(id); err != nil {
				return err
			}
			if err := c.client.UpdateAlertEventStatus(cmd.Context(), id, workflow.EventAck); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Acknowledged event %s\n", id)
			return nil
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
