package forms

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
	"github.com/TheDeveloper404/ConstructionIQ/internal/workflow"
)

// QuoteItemRow is one editable row of a quote form.
type QuoteItemRow struct {
	RawLineText  string
	Qty          decimal.Decimal
	UOM          string
	UnitPrice    decimal.Decimal
	ProductID    string
	VATIncluded  bool
	LeadTimeDays *int
	Notes        string
}

func newQuoteItemRow() QuoteItemRow {
	return QuoteItemRow{
		Qty:       decimal.NewFromInt(1),
		UOM:       workflow.DefaultUOM,
		UnitPrice: decimal.Zero,
	}
}

// QuoteForm is the create form of a quote.
type QuoteForm struct {
	SupplierID    string
	RFQID         string
	Currency      string
	PaymentTerms  string
	DeliveryTerms string
	Items         []QuoteItemRow
}

// NewQuoteForm returns a quote form in RON with one default row.
func NewQuoteForm() *QuoteForm {
	return &QuoteForm{
		Currency: workflow.DefaultCurrency,
		Items:    []QuoteItemRow{newQuoteItemRow()},
	}
}

// ParseQuote reads a posted quote form. Item fields are parallel repeated values.
func ParseQuote(v url.Values) *QuoteForm {
	f := &QuoteForm{
		SupplierID:    v.Get("supplier_id"),
		RFQID:         v.Get("rfq_id"),
		Currency:      v.Get("currency"),
		PaymentTerms:  v.Get("payment_terms"),
		DeliveryTerms: v.Get("delivery_terms"),
	}
	if !workflow.IsValid(workflow.Currencies, f.Currency) {
		f.Currency = workflow.DefaultCurrency
	}

	fields := []struct{ form, item string }{
		{"item_raw_line_text", "raw_line_text"},
		{"item_qty", "qty"},
		{"item_uom", "uom"},
		{"item_unit_price", "unit_price"},
		{"item_product_id", "normalized_product_id"},
		{"item_vat_included", "vat_included"},
		{"item_lead_time_days", "lead_time_days"},
		{"item_notes", "notes"},
	}
	for i := range v["item_raw_line_text"] {
		f.Items = append(f.Items, newQuoteItemRow())
		for _, fld := range fields {
			f.UpdateItem(i, fld.item, at(v[fld.form], i))
		}
	}
	if len(f.Items) == 0 {
		f.Items = []QuoteItemRow{newQuoteItemRow()}
	}
	return f
}

// AddItem appends a default row.
func (f *QuoteForm) AddItem() {
	f.Items = append(f.Items, newQuoteItemRow())
}

// RemoveItem deletes row i. The last remaining row is never removed.
func (f *QuoteForm) RemoveItem(i int) {
	if len(f.Items) <= 1 || i < 0 || i >= len(f.Items) {
		return
	}
	f.Items = slices.Delete(f.Items, i, i+1)
}

// UpdateItem sets one field of row i. Unparseable numbers become zero so
// the totals always reflect what is on screen.
func (f *QuoteForm) UpdateItem(i int, field, value string) error {
	if i < 0 || i >= len(f.Items) {
		return fmt.Errorf("item %d out of range", i)
	}
	row := &f.Items[i]
	value = strings.TrimSpace(value)
	switch field {
	case "raw_line_text":
		row.RawLineText = value
	case "qty":
		row.Qty = parseDecimal(value)
	case "unit_price":
		row.UnitPrice = parseDecimal(value)
	case "uom":
		if workflow.IsValid(workflow.UOMs, value) {
			row.UOM = value
		}
	case "normalized_product_id":
		row.ProductID = derefID(optionalID(value))
	case "vat_included":
		row.VATIncluded = value == "true" || value == "on"
	case "lead_time_days":
		row.LeadTimeDays = nil
		if days, err := strconv.Atoi(value); err == nil && days > 0 {
			row.LeadTimeDays = &days
		}
	case "notes":
		row.Notes = value
	default:
		return fmt.Errorf("unknown item field %q", field)
	}
	return nil
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// LineTotal returns qty × unit price of row i.
func (f *QuoteForm) LineTotal(i int) decimal.Decimal {
	row := f.Items[i]
	return lineTotal(row.Qty, row.UnitPrice)
}

// GrandTotal returns the sum of every line total.
func (f *QuoteForm) GrandTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range f.Items {
		total = total.Add(f.LineTotal(i))
	}
	return total
}

func (f *QuoteForm) Validate() error {
	if err := required("supplier_id", f.SupplierID, "Selectați un furnizor"); err != nil {
		return err
	}
	for i, item := range f.Items {
		if err := required(fmt.Sprintf("items[%d].raw_line_text", i), item.RawLineText, "Completați descrierea tuturor articolelor"); err != nil {
			return err
		}
	}
	return nil
}

// Quote builds the request body.
func (f *QuoteForm) Quote() api.Quote {
	items := make([]api.QuoteItem, len(f.Items))
	for i, row := range f.Items {
		items[i] = api.QuoteItem{
			RawLineText:         row.RawLineText,
			Qty:                 row.Qty.InexactFloat64(),
			UOM:                 row.UOM,
			UnitPrice:           row.UnitPrice.InexactFloat64(),
			NormalizedProductID: optionalID(row.ProductID),
			VATIncluded:         row.VATIncluded,
			LeadTimeDays:        row.LeadTimeDays,
			Notes:               row.Notes,
		}
	}
	return api.Quote{
		SupplierID:    f.SupplierID,
		RFQID:         optionalID(f.RFQID),
		Currency:      f.Currency,
		PaymentTerms:  f.PaymentTerms,
		DeliveryTerms: f.DeliveryTerms,
		Items:         items,
	}
}

// LineTotal returns qty × unit price of a persisted quote line.
func LineTotal(item api.QuoteItem) decimal.Decimal {
	return lineTotal(decimal.NewFromFloat(item.Qty), decimal.NewFromFloat(item.UnitPrice))
}

func lineTotal(qty, unitPrice decimal.Decimal) decimal.Decimal {
	return qty.Mul(unitPrice).Round(2)
}

// SumLines returns the sum of the line totals of a persisted quote.
func SumLines(items []api.QuoteItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(LineTotal(item))
	}
	return total
}

// FormatMoney renders an amount with two decimals and its currency.
func FormatMoney(amount decimal.Decimal, currency string) string {
	s := amount.StringFixed(2)
	if currency == "" {
		return s
	}
	return s + " " + currency
}
