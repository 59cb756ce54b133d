package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
	"github.com/TheDeveloper404/ConstructionIQ/internal/forms"
	"github.com/TheDeveloper404/ConstructionIQ/internal/listing"
	"github.com/TheDeveloper404/ConstructionIQ/internal/pricing"
	"github.com/TheDeveloper404/ConstructionIQ/internal/workflow"
)

// skeletonDelay is how long a fetch may run before placeholder rows are
// printed.
const skeletonDelay = 150 * time.Millisecond

// collection is a paginated collection the CLI can list and browse.
type collection interface {
	filterKeys() []string
	list(ctx context.Context, out io.Writer, filters map[string]string, page, pageSize int) error
	browse(ctx context.Context, c *cli, cmd *cobra.Command, filters map[string]string, pageSize int) error
}

type table[T any] struct {
	fetch   listing.Fetcher[T]
	filters []string
	columns []string
	row     func(T) []string
}

func (t table[T]) filterKeys() []string {
	return t.filters
}

func (t table[T]) list(ctx context.Context, out io.Writer, filters map[string]string, page, pageSize int) error {
	l := listing.NewList(t.fetch, pageSize)
	if err := l.Open(ctx, filters, page); err != nil {
		return err
	}
	t.print(out, l.State())
	return nil
}

// browse pages through the collection interactively. Fetches run in the
// background; slow ones show skeleton rows until the page arrives.
func (t table[T]) browse(ctx context.Context, c *cli, cmd *cobra.Command, filters map[string]string, pageSize int) error {
	out := cmd.OutOrStdout()
	l := listing.NewList(t.fetch, pageSize)
	defer l.Close()

	op := func(ctx context.Context) error { return l.Open(ctx, filters, 1) }
	for {
		if err := t.await(ctx, out, l, op); err != nil {
			if api.IsUnauthorized(err) {
				return err
			}
			if !errors.Is(err, listing.ErrSuperseded) {
				fmt.Fprintln(out, errorLine(err))
			}
		} else {
			t.print(out, l.State())
		}

		fmt.Fprint(out, "[n]ext [p]rev [<page>] [f key=value] [q]uit > ")
		line, err := c.readLine(cmd)
		if err != nil {
			fmt.Fprintln(out)
			return nil
		}

		st := l.State()
		switch {
		case line == "q":
			return nil
		case line == "" || line == "n":
			next := st.Page + 1
			op = func(ctx context.Context) error { return l.GoTo(ctx, min(next, max(st.TotalPages, 1))) }
		case line == "p":
			prev := st.Page - 1
			op = func(ctx context.Context) error { return l.GoTo(ctx, prev) }
		case strings.HasPrefix(line, "f "):
			key, value, _ := strings.Cut(strings.TrimSpace(line[2:]), "=")
			if !slices.Contains(t.filters, key) {
				fmt.Fprintf(out, "unknown filter %q (use %s)\n", key, strings.Join(t.filters, ", "))
				op = func(ctx context.Context) error { return l.Load(ctx) }
				continue
			}
			op = func(ctx context.Context) error { return l.SetFilter(ctx, key, value) }
		default:
			n, err := strconv.Atoi(line)
			if err != nil {
				fmt.Fprintf(out, "unknown command %q\n", line)
				op = func(ctx context.Context) error { return l.Load(ctx) }
				continue
			}
			op = func(ctx context.Context) error { return l.GoTo(ctx, n) }
		}
	}
}

func (t table[T]) await(ctx context.Context, out io.Writer, l *listing.List[T], op func(context.Context) error) error {
	done := make(chan error, 1)
	go func() { done <- op(ctx) }()

	select {
	case err := <-done:
		return err
	case <-time.After(skeletonDelay):
	}

	placeholder := make([]string, len(t.columns))
	for i := range placeholder {
		placeholder[i] = "░░░░░░"
	}
	for range max(l.State().Skeleton, 1) {
		fmt.Fprintln(out, strings.Join(placeholder, "  "))
	}
	return <-done
}

func (t table[T]) print(out io.Writer, st listing.State[T]) {
	if len(st.Items) == 0 {
		fmt.Fprintln(out, "No results.")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.columns, "\t"))
	for _, item := range st.Items {
		fmt.Fprintln(tw, strings.Join(t.row(item), "\t"))
	}
	tw.Flush()

	fmt.Fprintf(out, "Showing %d-%d of %d (page %d/%d)\n", st.From(), st.To(), st.Total, st.Page, max(st.TotalPages, 1))
}

func (c *cli) collections() map[string]collection {
	return map[string]collection{
		"suppliers": table[api.Supplier]{
			fetch:   c.client.ListSuppliers,
			filters: []string{"search"},
			columns: []string{"ID", "NAME", "EMAIL", "PHONE", "TAGS"},
			row: func(s api.Supplier) []string {
				return []string{s.ID, truncate(s.Name, 40), s.ContactEmail, s.Phone, strings.Join(s.Tags, ",")}
			},
		},
		"projects": table[api.Project]{
			fetch:   c.client.ListProjects,
			filters: []string{"status"},
			columns: []string{"ID", "NAME", "LOCATION", "STATUS", "CREATED"},
			row: func(p api.Project) []string {
				return []string{p.ID, truncate(p.Name, 40), p.Location, workflow.StatusLabel(p.Status), formatDate(p.CreatedAt)}
			},
		},
		"rfqs": table[api.RFQ]{
			fetch:   c.client.ListRFQs,
			filters: []string{"status"},
			columns: []string{"ID", "TITLE", "STATUS", "ITEMS", "SUPPLIERS", "DUE"},
			row: func(r api.RFQ) []string {
				return []string{r.ID, truncate(r.Title, 40), workflow.StatusLabel(r.Status),
					strconv.Itoa(len(r.Items)), strconv.Itoa(len(r.SupplierIDs)), orDash(r.DueDate)}
			},
		},
		"quotes": table[api.Quote]{
			fetch:   c.client.ListQuotes,
			filters: []string{"status"},
			columns: []string{"ID", "SUPPLIER", "STATUS", "ITEMS", "TOTAL", "RECEIVED"},
			row: func(q api.Quote) []string {
				return []string{q.ID, truncate(orDash(q.SupplierName), 30), workflow.StatusLabel(q.Status),
					strconv.Itoa(len(q.Items)), forms.SumLines(q.Items).StringFixed(2) + " " + q.Currency, formatDate(q.ReceivedAt)}
			},
		},
		"products": table[api.Product]{
			fetch:   c.client.ListProducts,
			filters: []string{"search", "category"},
			columns: []string{"ID", "NAME", "CATEGORY", "UOM"},
			row: func(p api.Product) []string {
				return []string{p.ID, truncate(p.CanonicalName, 40), orDash(p.Category), workflow.UOMLabel(p.BaseUOM)}
			},
		},
		"events": table[api.AlertEvent]{
			fetch:   c.client.ListAlertEvents,
			filters: []string{"status"},
			columns: []string{"ID", "SEVERITY", "PRODUCT", "CHANGE", "STATUS", "TRIGGERED"},
			row: func(e api.AlertEvent) []string {
				return []string{e.ID, workflow.SeverityLabel(e.Severity), truncate(orDash(e.ProductName), 30),
					pricing.FormatChange(e.Payload.ChangePercent), workflow.StatusLabel(e.Status), formatDate(e.TriggeredAt)}
			},
		},
	}
}

func (c *cli) lookupCollection(name string) (collection, error) {
	coll, ok := c.collections()[name]
	if !ok {
		names := slices.Sorted(maps.Keys(c.collections()))
		return nil, fmt.Errorf("unknown collection %q (use one of: %s)", name, strings.Join(names, ", "))
	}
	return coll, nil
}

// collectionFlags are the filters and paging flags of list and browse.
type collectionFlags struct {
	search   string
	status   string
	category string
	page     int
	pageSize int
}

func (f *collectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.search, "search", "", "Search text (suppliers, products)")
	cmd.Flags().StringVar(&f.status, "status", "", "Status filter (projects, rfqs, quotes, events)")
	cmd.Flags().StringVar(&f.category, "category", "", "Category filter (products)")
	cmd.Flags().IntVar(&f.pageSize, "page-size", listing.DefaultPageSize, "Rows per page")
}

// filters returns the flags the collection supports; "all" means no filter.
func (f *collectionFlags) filters(coll collection) map[string]string {
	values := map[string]string{"search": f.search, "status": f.status, "category": f.category}
	out := map[string]string{}
	for _, key := range coll.filterKeys() {
		if v := strings.TrimSpace(values[key]); v != "" && v != "all" {
			out[key] = v
		}
	}
	return out
}

func (c *cli) listCmd() *cobra.Command {
	var flags collectionFlags

	cmd := &cobra.Command{
		Use:   "list <suppliers|projects|rfqs|quotes|products|events>",
		Short: "List one page of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coll, err := c.lookupCollection(args[0])
			if err != nil {
				return err
			}
			return coll.list(cmd.Context(), cmd.OutOrStdout(), flags.filters(coll), flags.page, flags.pageSize)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&flags.page, "page", 1, "Page number")
	return cmd
}

func (c *cli) browseCmd() *cobra.Command {
	var flags collectionFlags

	cmd := &cobra.Command{
		Use:   "browse <suppliers|projects|rfqs|quotes|products|events>",
		Short: "Page through a collection interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coll, err := c.lookupCollection(args[0])
			if err != nil {
				return err
			}
			return coll.browse(cmd.Context(), c, cmd, flags.filters(coll), flags.pageSize)
		},
	}

	flags.register(cmd)
	return cmd
}

// Helper functions

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatDate(ts api.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02")
}
