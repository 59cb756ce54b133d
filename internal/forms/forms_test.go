package forms

import (
	"errors"
	"net/url"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
)

func TestSplitTags(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"ciment, oțel ,ciment,, ", []string{"ciment", "oțel"}},
		{"lemn", []string{"lemn"}},
	}

	for _, tt := range tests {
		if got := SplitTags(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitTags(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"supplier without name", ParseSupplier(url.Values{"name": {"  "}}).Validate(), "Introduceți numele furnizorului"},
		{"supplier with name", ParseSupplier(url.Values{"name": {"Dedeman"}}).Validate(), ""},
		{"project without name", NewProjectForm().Validate(), "Introduceți numele proiectului"},
		{"product without name", NewProductForm().Validate(), "Introduceți numele produsului"},
		{"rule without name", NewAlertRuleForm().Validate(), "Introduceți numele regulii"},
		{"rfq without title", NewRFQForm().Validate(), "Introduceți un titlu"},
		{"rfq without project", (&RFQForm{Title: "Beton", Items: []RFQItemRow{{RawText: "x"}}}).Validate(), "Selectați un proiect"},
		{"rfq with blank item", (&RFQForm{Title: "Beton", ProjectID: "p1", Items: []RFQItemRow{{RawText: "x"}, {RawText: " "}}}).Validate(), "Completați descrierea tuturor articolelor"},
		{"quote without supplier", NewQuoteForm().Validate(), "Selectați un furnizor"},
		{"quote with blank item", (&QuoteForm{SupplierID: "s1", Items: []QuoteItemRow{{}}}).Validate(), "Completați descrierea tuturor articolelor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantMsg == "" {
				if tt.err != nil {
					t.Errorf("Validate() = %v, want nil", tt.err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(tt.err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", tt.err)
			}
			if verr.Message != tt.wantMsg {
				t.Errorf("Validate() = %q, want %q", verr.Message, tt.wantMsg)
			}
		})
	}
}

func TestSupplierFormRoundTrip(t *testing.T) {
	s := api.Supplier{Name: "Dedeman", Tags: []string{"ciment", "oțel"}}
	f := SupplierFormFrom(s)
	if f.Tags != "ciment, oțel" {
		t.Errorf("Tags = %q, want %q", f.Tags, "ciment, oțel")
	}
	if got := f.Supplier().Tags; !reflect.DeepEqual(got, s.Tags) {
		t.Errorf("Supplier().Tags = %v, want %v", got, s.Tags)
	}
}

func TestAlertRuleDefaults(t *testing.T) {
	f := NewAlertRuleForm()
	if f.Type != "threshold_vs_last" || f.ThresholdPercent != 10 || f.CompareLastN != 3 || !f.IsActive {
		t.Errorf("NewAlertRuleForm() = %+v", f)
	}

	parsed := ParseAlertRule(url.Values{"name": {"Oțel"}, "threshold_percent": {"abc"}, "type": {"bogus"}})
	if parsed.ThresholdPercent != 10 || parsed.Type != "threshold_vs_last" {
		t.Errorf("ParseAlertRule() = %+v, want defaults kept", parsed)
	}
}

func TestRFQForm_Rows(t *testing.T) {
	f := NewRFQForm()
	if len(f.Items) != 1 || f.Items[0].Qty != 1 || f.Items[0].UOM != "unit" || f.Items[0].RawText != "" {
		t.Fatalf("default row = %+v", f.Items)
	}

	f.RemoveItem(0)
	if len(f.Items) != 1 {
		t.Errorf("RemoveItem on last row: len = %d, want 1", len(f.Items))
	}

	f.AddItem()
	f.UpdateItem(0, "raw_text", "Ciment")
	f.UpdateItem(1, "raw_text", "Nisip")
	f.UpdateItem(1, "requested_uom", "mc")
	f.RemoveItem(0)
	if len(f.Items) != 1 || f.Items[0].RawText != "Nisip" || f.Items[0].UOM != "mc" {
		t.Errorf("after remove = %+v", f.Items)
	}

	if err := f.UpdateItem(5, "raw_text", "x"); err == nil {
		t.Error("expected error for out of range row")
	}
	if err := f.UpdateItem(0, "bogus", "x"); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestRFQForm_ToggleSupplier(t *testing.T) {
	f := NewRFQForm()
	f.ToggleSupplier("s1")
	f.ToggleSupplier("s2")
	f.ToggleSupplier("s1")
	if !reflect.DeepEqual(f.SupplierIDs, []string{"s2"}) {
		t.Errorf("SupplierIDs = %v, want [s2]", f.SupplierIDs)
	}
	if f.HasSupplier("s1") || !f.HasSupplier("s2") {
		t.Error("HasSupplier() mismatch")
	}
}

func TestParseRFQ(t *testing.T) {
	v := url.Values{
		"title":           {"Beton C25"},
		"project_id":      {"p1"},
		"supplier_ids":    {"s1", "s1", "s2"},
		"item_raw_text":   {"Beton", "Armătură"},
		"item_qty":        {"12.5", "x"},
		"item_uom":        {"mc", "bogus"},
		"item_product_id": {"none", "prod-1"},
	}
	f := ParseRFQ(v)
	if err := f.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	rfq := f.RFQ()
	if !reflect.DeepEqual(rfq.SupplierIDs, []string{"s1", "s2"}) {
		t.Errorf("SupplierIDs = %v, want [s1 s2]", rfq.SupplierIDs)
	}
	if len(rfq.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(rfq.Items))
	}
	if rfq.Items[0].RequestedQty != 12.5 || rfq.Items[0].RequestedUOM != "mc" || rfq.Items[0].NormalizedProductID != nil {
		t.Errorf("item 0 = %+v", rfq.Items[0])
	}
	if rfq.Items[1].RequestedQty != 1 || rfq.Items[1].RequestedUOM != "unit" || *rfq.Items[1].NormalizedProductID != "prod-1" {
		t.Errorf("item 1 = %+v", rfq.Items[1])
	}
}

func TestQuoteForm_Totals(t *testing.T) {
	f := ParseQuote(url.Values{
		"supplier_id":         {"s1"},
		"item_raw_line_text":  {"Ciment 40kg", "Oțel Ø12"},
		"item_qty":            {"10", "2,5"},
		"item_unit_price":     {"32.50", "4.10"},
		"item_vat_included":   {"false", "true"},
		"item_lead_time_days": {"", "7"},
	})

	if got := f.LineTotal(0).StringFixed(2); got != "325.00" {
		t.Errorf("LineTotal(0) = %s, want 325.00", got)
	}
	if got := f.LineTotal(1).StringFixed(2); got != "10.25" {
		t.Errorf("LineTotal(1) = %s, want 10.25", got)
	}
	if got := f.GrandTotal().StringFixed(2); got != "335.25" {
		t.Errorf("GrandTotal() = %s, want 335.25", got)
	}

	q := f.Quote()
	if q.Currency != "RON" {
		t.Errorf("Currency = %q, want RON", q.Currency)
	}
	if q.RFQID != nil {
		t.Errorf("RFQID = %v, want nil", *q.RFQID)
	}
	if q.Items[0].LeadTimeDays != nil || *q.Items[1].LeadTimeDays != 7 || !q.Items[1].VATIncluded {
		t.Errorf("items = %+v", q.Items)
	}
}

func TestQuoteTotals_FormMatchesDetail(t *testing.T) {
	f := NewQuoteForm()
	f.UpdateItem(0, "raw_line_text", "Ciment")
	f.UpdateItem(0, "qty", "3")
	f.UpdateItem(0, "unit_price", "0.1")
	f.AddItem()
	f.UpdateItem(1, "raw_line_text", "Nisip")
	f.UpdateItem(1, "qty", "2.5")
	f.UpdateItem(1, "unit_price", "10.10")

	// what the detail view gets back from the server
	saved := f.Quote()

	for i := range f.Items {
		form := f.LineTotal(i)
		detail := LineTotal(saved.Items[i])
		if !form.Equal(detail) {
			t.Errorf("line %d: form %s, detail %s", i, form, detail)
		}
	}
	if !f.GrandTotal().Equal(SumLines(saved.Items)) {
		t.Errorf("grand total: form %s, detail %s", f.GrandTotal(), SumLines(saved.Items))
	}
	if got := SumLines(saved.Items).StringFixed(2); got != "25.55" {
		t.Errorf("SumLines() = %s, want 25.55", got)
	}
}

func TestQuoteForm_RemoveLastRowIsNoop(t *testing.T) {
	f := NewQuoteForm()
	f.RemoveItem(0)
	if len(f.Items) != 1 {
		t.Errorf("len = %d, want 1", len(f.Items))
	}
	if !f.Items[0].Qty.Equal(decimal.NewFromInt(1)) || !f.Items[0].UnitPrice.IsZero() || f.Items[0].UOM != "unit" || f.Items[0].LeadTimeDays != nil {
		t.Errorf("default row = %+v", f.Items[0])
	}
}

func TestFormatMoney(t *testing.T) {
	f := NewQuoteForm()
	f.UpdateItem(0, "qty", "2")
	f.UpdateItem(0, "unit_price", "1234.5")
	if got := FormatMoney(f.GrandTotal(), "RON"); got != "2469.00 RON" {
		t.Errorf("FormatMoney() = %q, want %q", got, "2469.00 RON")
	}
}
