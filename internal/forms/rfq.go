package forms

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
	"github.com/TheDeveloper404/ConstructionIQ/internal/workflow"
)

// RFQItemRow is one editable row of an RFQ form.
type RFQItemRow struct {
	RawText   string
	Qty       float64
	UOM       string
	ProductID string
}

func newRFQItemRow() RFQItemRow {
	return RFQItemRow{Qty: 1, UOM: workflow.DefaultUOM}
}

// RFQForm is the create form of an RFQ.
type RFQForm struct {
	Title       string
	ProjectID   string
	DueDate     string
	Notes       string
	SupplierIDs []string
	Items       []RFQItemRow
}

// NewRFQForm returns an RFQ form with one default row.
func NewRFQForm() *RFQForm {
	return &RFQForm{
		SupplierIDs: []string{},
		Items:       []RFQItemRow{newRFQItemRow()},
	}
}

// ParseRFQ reads a posted RFQ form. Item fields are parallel repeated values.
func ParseRFQ(v url.Values) *RFQForm {
	f := &RFQForm{
		Title:       v.Get("title"),
		ProjectID:   v.Get("project_id"),
		DueDate:     v.Get("due_date"),
		Notes:       v.Get("notes"),
		SupplierIDs: Dedupe(v["supplier_ids"]),
	}

	texts := v["item_raw_text"]
	for i := range texts {
		f.Items = append(f.Items, newRFQItemRow())
		f.UpdateItem(i, "raw_text", texts[i])
		f.UpdateItem(i, "requested_qty", at(v["item_qty"], i))
		f.UpdateItem(i, "requested_uom", at(v["item_uom"], i))
		f.UpdateItem(i, "normalized_product_id", at(v["item_product_id"], i))
	}
	if len(f.Items) == 0 {
		f.Items = []RFQItemRow{newRFQItemRow()}
	}
	return f
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

// AddItem appends a default row.
func (f *RFQForm) AddItem() {
	f.Items = append(f.Items, newRFQItemRow())
}

// RemoveItem deletes row i. The last remaining row is never removed.
func (f *RFQForm) RemoveItem(i int) {
	if len(f.Items) <= 1 || i < 0 || i >= len(f.Items) {
		return
	}
	f.Items = slices.Delete(f.Items, i, i+1)
}

// UpdateItem sets one field of row i. Unparseable quantities and unknown
// units are ignored.
func (f *RFQForm) UpdateItem(i int, field, value string) error {
	if i < 0 || i >= len(f.Items) {
		return fmt.Errorf("item %d out of range", i)
	}
	row := &f.Items[i]
	switch field {
	case "raw_text":
		row.RawText = value
	case "requested_qty":
		if qty, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			row.Qty = qty
		}
	case "requested_uom":
		if workflow.IsValid(workflow.UOMs, value) {
			row.UOM = value
		}
	case "normalized_product_id":
		row.ProductID = derefID(optionalID(value))
	default:
		return fmt.Errorf("unknown item field %q", field)
	}
	return nil
}

// ToggleSupplier adds or removes a supplier from the selection.
func (f *RFQForm) ToggleSupplier(id string) {
	if idx := slices.Index(f.SupplierIDs, id); idx >= 0 {
		f.SupplierIDs = slices.Delete(f.SupplierIDs, idx, idx+1)
		return
	}
	f.SupplierIDs = append(f.SupplierIDs, id)
}

// HasSupplier reports whether id is selected.
func (f *RFQForm) HasSupplier(id string) bool {
	return slices.Contains(f.SupplierIDs, id)
}

func (f *RFQForm) Validate() error {
	if err := required("title", f.Title, "Introduceți un titlu"); err != nil {
		return err
	}
	if err := required("project_id", f.ProjectID, "Selectați un proiect"); err != nil {
		return err
	}
	for i, item := range f.Items {
		if err := required(fmt.Sprintf("items[%d].raw_text", i), item.RawText, "Completați descrierea tuturor articolelor"); err != nil {
			return err
		}
	}
	return nil
}

// RFQ builds the request body.
func (f *RFQForm) RFQ() api.RFQ {
	items := make([]api.RFQItem, len(f.Items))
	for i, row := range f.Items {
		items[i] = api.RFQItem{
			RawText:             strings.TrimSpace(row.RawText),
			RequestedQty:        row.Qty,
			RequestedUOM:        row.UOM,
			NormalizedProductID: optionalID(row.ProductID),
		}
	}
	return api.RFQ{
		Title:       strings.TrimSpace(f.Title),
		ProjectID:   f.ProjectID,
		DueDate:     f.DueDate,
		Notes:       f.Notes,
		SupplierIDs: Dedupe(f.SupplierIDs),
		Items:       items,
	}
}
