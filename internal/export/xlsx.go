package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
	"github.com/TheDeveloper404/ConstructionIQ/internal/forms"
	"github.com/TheDeveloper404/ConstructionIQ/internal/pricing"
	"github.com/TheDeveloper404/ConstructionIQ/internal/workflow"
)

const dateLayout = "02.01.2006"

// newWorkbook creates a file whose only sheet is named sheet.
func newWorkbook(sheet string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func boldHeader(f *excelize.File, sheet string, columns int) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F0F0F0"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", end, style)
}

func finish(f *excelize.File, w io.Writer) error {
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteQuotes writes one row per quote. supplierNames maps supplier ids to
// names; unknown ids are written as is.
func WriteQuotes(w io.Writer, quotes []api.Quote, supplierNames map[string]string) error {
	const sheet = "Oferte"
	f, err := newWorkbook(sheet)
	if err != nil {
		return err
	}

	header := []any{"Furnizor", "Status", "Monedă", "Articole", "Total", "Primită la"}
	if err := writeRow(f, sheet, 1, header...); err != nil {
		f.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := boldHeader(f, sheet, len(header)); err != nil {
		f.Close()
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, q := range quotes {
		supplier := q.SupplierName
		if name, ok := supplierNames[q.SupplierID]; ok {
			supplier = name
		}
		if supplier == "" {
			supplier = q.SupplierID
		}
		received := ""
		if !q.ReceivedAt.IsZero() {
			received = q.ReceivedAt.Format(dateLayout)
		}
		total, _ := forms.SumLines(q.Items).Float64()
		err := writeRow(f, sheet, i+2,
			supplier, workflow.StatusLabel(q.Status), q.Currency, len(q.Items), total, received)
		if err != nil {
			f.Close()
			return fmt.Errorf("failed to write quote %s: %w", q.ID, err)
		}
	}
	return finish(f, w)
}

// WriteQuote writes the lines of one quote with their totals.
func WriteQuote(w io.Writer, q api.Quote, supplierName string, productNames map[string]string) error {
	const sheet = "Articole"
	f, err := newWorkbook(sheet)
	if err != nil {
		return err
	}

	header := []any{"Descriere", "Cantitate", "UM", "Preț unitar", "Total linie", "TVA inclus", "Termen (zile)", "Produs", "Note"}
	if err := writeRow(f, sheet, 1, header...); err != nil {
		f.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := boldHeader(f, sheet, len(header)); err != nil {
		f.Close()
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, item := range q.Items {
		lineTotal, _ := forms.LineTotal(item).Float64()
		vat := "Nu"
		if item.VATIncluded {
			vat = "Da"
		}
		var lead any
		if item.LeadTimeDays != nil {
			lead = *item.LeadTimeDays
		}
		product := ""
		if item.IsMapped() {
			product = productNames[*item.NormalizedProductID]
		}
		err := writeRow(f, sheet, i+2,
			item.RawLineText, item.Qty, workflow.UOMLabel(item.UOM), item.UnitPrice, lineTotal, vat, lead, product, item.Notes)
		if err != nil {
			f.Close()
			return fmt.Errorf("failed to write item %s: %w", item.ID, err)
		}
	}

	totalRow := len(q.Items) + 3
	grand, _ := forms.SumLines(q.Items).Float64()
	summary := [][]any{
		{"Furnizor", supplierName},
		{"Monedă", q.Currency},
		{"Termeni plată", q.PaymentTerms},
		{"Termeni livrare", q.DeliveryTerms},
		{"Total", grand},
	}
	for i, row := range summary {
		if err := writeRow(f, sheet, totalRow+i, row...); err != nil {
			f.Close()
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	return finish(f, w)
}

// WritePriceHistory writes the price points of a product on one sheet and
// the window statistics on another.
func WritePriceHistory(w io.Writer, history *api.PriceHistory, days int) error {
	const sheet = "Prețuri"
	const statsSheet = "Statistici"
	f, err := newWorkbook(sheet)
	if err != nil {
		return err
	}

	header := []any{"Data", "Preț", "UM", "Furnizor", "Sursă"}
	if err := writeRow(f, sheet, 1, header...); err != nil {
		f.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := boldHeader(f, sheet, len(header)); err != nil {
		f.Close()
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, p := range history.PricePoints {
		supplier := p.SupplierName
		if supplier == "" {
			supplier = "Necunoscut"
		}
		err := writeRow(f, sheet, i+2,
			p.ObservedAt.Format(dateLayout), p.UnitPriceNormalized, workflow.UOMLabel(p.UOMNormalized), supplier, workflow.SourceLabel(p.SourceType))
		if err != nil {
			f.Close()
			return fmt.Errorf("failed to write price point: %w", err)
		}
	}

	if _, err := f.NewSheet(statsSheet); err != nil {
		f.Close()
		return fmt.Errorf("failed to create stats sheet: %w", err)
	}
	rows := [][]any{
		{"Produs", history.Product.CanonicalName},
		{"Categorie", history.Product.Category},
		{"Perioadă (zile)", days},
	}
	if stats, ok := pricing.Compute(history.PricePoints); ok {
		rows = append(rows,
			[]any{"Ultimul preț", stats.Latest},
			[]any{"Primul preț", stats.First},
			[]any{"Preț mediu", stats.Average},
			[]any{"Minim", stats.Min},
			[]any{"Maxim", stats.Max},
			[]any{"Observații", stats.Count},
			[]any{"Variație", pricing.FormatChange(stats.ChangePercent)},
		)
	}
	for i, row := range rows {
		if err := writeRow(f, statsSheet, i+1, row...); err != nil {
			f.Close()
			return fmt.Errorf("failed to write stats: %w", err)
		}
	}
	return finish(f, w)
}
