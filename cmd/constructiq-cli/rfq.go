package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TheDeveloper404/ConstructionIQ/internal/workflow"
)

func optionValues(opts []workflow.Option) string {
	values := make([]string, len(opts))
	for i, o := range opts {
		values[i] = o.Value
	}
	return strings.Join(values, ", ")
}

func (c *cli) rfqCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rfq",
		Short: "Send and close requests for quotation",
	}
	cmd.AddCommand(c.rfqSendCmd(), c.rfqCloseCmd())
	return cmd
}

func (c *cli) rfqSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <rfq-id>",
		Short: "Send a draft RFQ to its suppliers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := requireID(id); err != nil {
				return err
			}

			rfq, err := c.client.GetRFQ(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := workflow.CanSend(rfq.Status, rfq.SupplierIDs); err != nil {
				if errors.Is(err, workflow.ErrNoSuppliers) {
					return fmt.Errorf("no suppliers selected, edit the RFQ first")
				}
				return fmt.Errorf("RFQ is already %s", workflow.StatusLabel(rfq.Status))
			}

			question := fmt.Sprintf("Send %q to %d supplier(s)?", rfq.Title, len(rfq.SupplierIDs))
			if err := c.confirm(cmd, question); err != nil {
				return err
			}

			msg, err := c.client.SendRFQ(cmd.Context(), id)
			if err != nil {
				return err
			}
			if msg.Message != "" {
				fmt.Fprintln(cmd.OutOrStdout(), msg.Message)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sent RFQ %s\n", id)
			return nil
		},
	}
}

func (c *cli) rfqCloseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close <rfq-id>",
		Short: "Close a sent RFQ",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := requireID(id); err != nil {
				return err
			}

			rfq, err := c.client.GetRFQ(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !workflow.CanClose(rfq.Status) {
				return fmt.Errorf("only sent RFQs can be closed (status: %s)", workflow.StatusLabel(rfq.Status))
			}
			if err := c.confirm(cmd, fmt.Sprintf("Close %q?", rfq.Title)); err != nil {
				return err
			}

			if _, err := c.client.UpdateRFQStatus(cmd.Context(), id, workflow.RFQClosed); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Closed RFQ %s\n", id)
			return nil
		},
	}
}
