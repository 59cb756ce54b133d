package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
	"github.com/TheDeveloper404/ConstructionIQ/internal/export"
	"github.com/TheDeveloper404/ConstructionIQ/internal/listing"
	"github.com/TheDeveloper404/ConstructionIQ/internal/storage"
	"github.com/TheDeveloper404/ConstructionIQ/internal/workflow"
)

// document is a rendered export ready to be written or archived.
type document struct {
	kind        string
	id          string
	contentType string
	body        []byte
}

type exportFlags struct {
	output string
	status string
	days   int
	upload bool
}

func (c *cli) exportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Generate XLSX and PDF documents",
	}
	cmd.PersistentFlags().StringVarP(&flags.output, "output", "o", "", "Output file, - for stdout (default: generated name)")
	cmd.PersistentFlags().BoolVar(&flags.upload, "upload", false, "Also archive the document to R2 storage")

	quotes := &cobra.Command{
		Use:   "quotes",
		Short: "Export quotes matching a status to XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd, flags, func(ctx context.Context) (*document, error) {
				return c.renderQuotes(ctx, flags.status)
			})
		},
	}
	quotes.Flags().StringVar(&flags.status, "status", "", "Status filter ("+optionValues(workflow.QuoteStatuses)+")")

	quote := &cobra.Command{
		Use:   "quote <quote-id>",
		Short: "Export one quote to XLSX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireID(args[0]); err != nil {
				return err
			}
			return c.runExport(cmd, flags, func(ctx context.Context) (*document, error) {
				return c.renderQuote(ctx, args[0])
			})
		},
	}

	prices := &cobra.Command{
		Use:   "price-history <product-id>",
		Short: "Export the price history of a product to XLSX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireID(args[0]); err != nil {
				return err
			}
			return c.runExport(cmd, flags, func(ctx context.Context) (*document, error) {
				return c.renderPriceHistory(ctx, args[0], workflow.NormalizeWindow(flags.days))
			})
		},
	}
	prices.Flags().IntVar(&flags.days, "days", workflow.DefaultPriceWindow, "Window in days (30, 90, 180 or 365)")

	rfq := &cobra.Command{
		Use:   "rfq <rfq-id>",
		Short: "Export a printable RFQ to PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireID(args[0]); err != nil {
				return err
			}
			return c.runExport(cmd, flags, func(ctx context.Context) (*document, error) {
				return c.renderRFQ(ctx, args[0])
			})
		},
	}

	cmd.AddCommand(quotes, quote, prices, rfq)
	return cmd
}

// runExport renders a document, writes it and optionally archives it.
func (c *cli) runExport(cmd *cobra.Command, flags exportFlags, render func(context.Context) (*document, error)) error {
	ctx := cmd.Context()

	// Fail before rendering when archiving cannot work.
	var store *storage.Client
	if flags.upload {
		var err error
		if store, err = c.storage(); err != nil {
			return err
		}
	}

	doc, err := render(ctx)
	if err != nil {
		return err
	}

	path := flags.output
	if path == "" {
		path = export.Filename(doc.kind, doc.id)
	}
	if path == "-" {
		if _, err := cmd.OutOrStdout().Write(doc.body); err != nil {
			return err
		}
	} else {
		if err := os.WriteFile(path, doc.body, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d bytes)\n", path, len(doc.body))
	}

	if store == nil {
		return nil
	}
	archived, err := storage.Archive(ctx, store, export.ObjectKey(doc.kind, doc.id, time.Now()), doc.body, doc.contentType)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Archived %s\nLink (valid %s): %s\n", archived.Key, storage.DefaultLinkExpiry, archived.URL)
	return nil
}

func (c *cli) renderQuotes(ctx context.Context, status string) (*document, error) {
	filters := map[string]string{}
	if status != "" && status != "all" {
		filters["status"] = status
	}

	var quotes []api.Quote
	names := map[string]string{}
	err := listing.FanOut(ctx,
		func(ctx context.Context) error {
			page, err := c.client.ListQuotes(ctx, api.ListParams{Page: 1, PageSize: api.AllPageSize, Filters: filters})
			if err == nil {
				quotes = page.Items
			}
			return err
		},
		func(ctx context.Context) error {
			suppliers, err := c.client.AllSuppliers(ctx)
			for _, s := range suppliers {
				names[s.ID] = s.Name
			}
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := export.WriteQuotes(&buf, quotes, names); err != nil {
		return nil, err
	}
	return &document{kind: export.KindQuotesXLSX, contentType: export.ContentTypeXLSX, body: buf.Bytes()}, nil
}

func (c *cli) renderQuote(ctx context.Context, id string) (*document, error) {
	var quote *api.Quote
	var suppliers []api.Supplier
	var products []api.Product
	err := listing.FanOut(ctx,
		func(ctx context.Context) (err error) {
			quote, err = c.client.GetQuote(ctx, id)
			return err
		},
		func(ctx context.Context) (err error) {
			suppliers, err = c.client.AllSuppliers(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			products, err = c.client.AllProducts(ctx)
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	supplierName := quote.SupplierName
	for _, s := range suppliers {
		if s.ID == quote.SupplierID {
			supplierName = s.Name
		}
	}
	productNames := make(map[string]string, len(products))
	for _, p := range products {
		productNames[p.ID] = p.CanonicalName
	}

	var buf bytes.Buffer
	if err := export.WriteQuote(&buf, *quote, supplierName, productNames); err != nil {
		return nil, err
	}
	return &document{kind: export.KindQuoteXLSX, id: id, contentType: export.ContentTypeXLSX, body: buf.Bytes()}, nil
}

func (c *cli) renderPriceHistory(ctx context.Context, productID string, days int) (*document, error) {
	history, err := c.client.PriceHistory(ctx, productID, days)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := export.WritePriceHistory(&buf, history, days); err != nil {
		return nil, err
	}
	return &document{kind: export.KindPriceHistoryXLSX, id: productID, contentType: export.ContentTypeXLSX, body: buf.Bytes()}, nil
}

func (c *cli) renderRFQ(ctx context.Context, id string) (*document, error) {
	rfq, err := c.client.GetRFQ(ctx, id)
	if err != nil {
		return nil, err
	}

	doc := export.RFQDocument{
		RFQ:       *rfq,
		DetailURL: c.cfg.BaseURL + "/rfqs/" + id,
	}
	err = listing.FanOut(ctx,
		func(ctx context.Context) error {
			if rfq.ProjectID == "" {
				return nil
			}
			p, err := c.client.GetProject(ctx, rfq.ProjectID)
			if api.IsNotFound(err) {
				return nil
			}
			if err == nil {
				doc.ProjectName = p.Name
			}
			return err
		},
		func(ctx context.Context) error {
			suppliers, err := listing.LoadEach(ctx, c.client.GetSupplier, rfq.SupplierIDs)
			for _, s := range suppliers {
				doc.Suppliers = append(doc.Suppliers, s.Name)
			}
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := export.WriteRFQ(&buf, doc); err != nil {
		return nil, err
	}
	return &document{kind: export.KindRFQPDF, id: id, contentType: export.ContentTypePDF, body: buf.Bytes()}, nil
}

func (c *cli) storage() (*storage.Client, error) {
	store, err := storage.NewClient(c.cfg.R2AccountID, c.cfg.R2AccessKeyID, c.cfg.R2SecretAccessKey, c.cfg.R2Bucket)
	if errors.Is(err, storage.ErrNotConfigured) {
		return nil, fmt.Errorf("%w: set R2_ACCOUNT_ID, R2_ACCESS_KEY_ID and R2_SECRET_ACCESS_KEY", err)
	}
	return store, err
}

// exportsCmd manages documents archived with export --upload.
func (c *cli) exportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exports",
		Short: "Fetch, link or remove archived exports",
	}

	var output string
	get := &cobra.Command{
		Use:   "get <key>",
		Short: "Download an archived export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			store, err := c.storage()
			if err != nil {
				return err
			}
			ok, err := store.Exists(cmd.Context(), key)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no archived export %s in bucket %s", key, store.Bucket())
			}

			body, err := store.Download(cmd.Context(), key)
			if err != nil {
				return err
			}
			defer body.Close()

			path := output
			if path == "" {
				path = filepath.Base(key)
			}
			var w io.Writer = cmd.OutOrStdout()
			if path != "-" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", path, err)
				}
				defer f.Close()
				w = f
			}
			n, err := io.Copy(w, body)
			if err != nil {
				return fmt.Errorf("failed to save %s: %w", key, err)
			}
			if path != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d bytes)\n", path, n)
			}
			return nil
		},
	}
	get.Flags().StringVarP(&output, "output", "o", "", "Output file, - for stdout (default: key basename)")

	var public bool
	link := &cobra.Command{
		Use:   "url <key>",
		Short: "Print a download link for an archived export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.storage()
			if err != nil {
				return err
			}
			if public {
				fmt.Fprintln(cmd.OutOrStdout(), store.PublicURL(args[0]))
				return nil
			}
			url, err := store.PresignDownload(cmd.Context(), args[0], storage.DefaultLinkExpiry)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
	link.Flags().BoolVar(&public, "public", false, "Print the bucket URL instead of a presigned link")

	rm := &cobra.Command{
		Use:   "rm <key>",
		Short: "Delete an archived export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.storage()
			if err != nil {
				return err
			}
			if err := c.confirm(cmd, fmt.Sprintf("Delete %s from %s?", args[0], store.Bucket())); err != nil {
				return err
			}
			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(get, link, rm)
	return cmd
}
