package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
	"github.com/TheDeveloper404/ConstructionIQ/internal/listing"
)

var entityKinds = []string{"supplier", "project", "rfq", "quote", "product"}

// showEntity loads one entity through a detail view and prints it as JSON.
func showEntity[T any](ctx context.Context, out io.Writer, load listing.Loader[T], id string) error {
	value, err := listing.NewDetail(load).Load(ctx, id)
	if err != nil {
		return err
	}
	return printJSON(out, value)
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func requireID(id string) error {
	if !api.IsValidID(id) {
		return fmt.Errorf("invalid id %q", id)
	}
	return nil
}

func (c *cli) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <supplier|project|rfq|quote|product> <id>",
		Short: "Show one entity as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, id := args[0], args[1]
			if err := requireID(id); err != nil {
				return err
			}

			ctx, out := cmd.Context(), cmd.OutOrStdout()
			switch kind {
			case "supplier":
				return showEntity(ctx, out, c.client.GetSupplier, id)
			case "project":
				return showEntity(ctx, out, c.client.GetProject, id)
			case "rfq":
				return showEntity(ctx, out, c.client.GetRFQ, id)
			case "quote":
				return showEntity(ctx, out, c.client.GetQuote, id)
			case "product":
				return showEntity(ctx, out, c.client.GetProduct, id)
			}
			return fmt.Errorf("unknown kind %q (use one of: %s)", kind, strings.Join(entityKinds, ", "))
		},
	}
}

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <supplier|project|rfq|quote|product> <id>",
		Short: "Delete one entity after confirmation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, id := args[0], args[1]
			deletes := map[string]func(context.Context, string) error{
				"supplier": c.client.DeleteSupplier,
				"project":  c.client.DeleteProject,
				"rfq":      c.client.DeleteRFQ,
				"quote":    c.client.DeleteQuote,
				"product":  c.client.DeleteProduct,
			}
			del, ok := deletes[kind]
			if !ok {
				return fmt.Errorf("unknown kind %q (use one of: %s)", kind, strings.Join(entityKinds, ", "))
			}
			if err := requireID(id); err != nil {
				return err
			}

			if err := c.confirm(cmd, fmt.Sprintf("Delete %s %s?", kind, id)); err != nil {
				return err
			}
			if err := del(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", kind, id)
			return nil
		},
	}
}
