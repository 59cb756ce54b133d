// Package forms holds create/edit form state for procurement entities:
// defaults, seeding from fetched entities, item rows, totals and the
// required-field checks done before anything is sent to the backend.
package forms

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
	"github.com/TheDeveloper404/ConstructionIQ/internal/workflow"
)

// ValidationError is a user-facing message for a missing required field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func required(field, value, message string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: message}
	}
	return nil
}

// Form actions posted by multi-row forms.
const (
	ActionAddItem    = "add_item"
	ActionRemoveItem = "remove_item"
	ActionRecalc     = "recalc"
	ActionSave       = "save"
	ActionSaveSend   = "save_send"
)

// SplitTags splits a comma-separated input into trimmed, non-empty,
// de-duplicated tags, keeping first-seen order.
func SplitTags(input string) []string {
	tags := []string{}
	for _, raw := range strings.Split(input, ",") {
		tag := strings.TrimSpace(raw)
		if tag != "" && !slices.Contains(tags, tag) {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Dedupe returns ids without blanks or repeats, keeping first-seen order.
func Dedupe(ids []string) []string {
	out := []string{}
	for _, id := range ids {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func optionalID(id string) *string {
	if id == "" || id == "none" {
		return nil
	}
	return &id
}

func derefID(id *string) string {
	if id == nil {
		return ""
	}
	return *id
}

// Supplier

// SupplierForm is the create/edit form of a supplier.
type SupplierForm struct {
	Name         string
	ContactEmail string
	Phone        string
	Address      string
	Tags         string
	Notes        string
}

// NewSupplierForm returns an empty supplier form.
func NewSupplierForm() *SupplierForm {
	return &SupplierForm{}
}

// SupplierFormFrom seeds the form from a fetched supplier.
func SupplierFormFrom(s api.Supplier) *SupplierForm {
	return &SupplierForm{
		Name:         s.Name,
		ContactEmail: s.ContactEmail,
		Phone:        s.Phone,
		Address:      s.Address,
		Tags:         strings.Join(s.Tags, ", "),
		Notes:        s.Notes,
	}
}

// ParseSupplier reads a posted supplier form.
func ParseSupplier(v url.Values) *SupplierForm {
	return &SupplierForm{
		Name:         v.Get("name"),
		ContactEmail: v.Get("contact_email"),
		Phone:        v.Get("phone"),
		Address:      v.Get("address"),
		Tags:         v.Get("tags"),
		Notes:        v.Get("notes"),
	}
}

func (f *SupplierForm) Validate() error {
	return required("name", f.Name, "Introduceți numele furnizorului")
}

// Supplier builds the request body.
func (f *SupplierForm) Supplier() api.Supplier {
	return api.Supplier{
		Name:         strings.TrimSpace(f.Name),
		ContactEmail: strings.TrimSpace(f.ContactEmail),
		Phone:        strings.TrimSpace(f.Phone),
		Address:      f.Address,
		Tags:         SplitTags(f.Tags),
		Notes:        f.Notes,
	}
}

// Project

// ProjectForm is the create/edit form of a project.
type ProjectForm struct {
	Name        string
	Location    string
	Status      string
	Description string
}

// NewProjectForm returns a project form defaulting to active.
func NewProjectForm() *ProjectForm {
	return &ProjectForm{Status: workflow.ProjectActive}
}

// ProjectFormFrom seeds the form from a fetched project.
func ProjectFormFrom(p api.Project) *ProjectForm {
	return &ProjectForm{
		Name:        p.Name,
		Location:    p.Location,
		Status:      p.Status,
		Description: p.Description,
	}
}

// ParseProject reads a posted project form.
func ParseProject(v url.Values) *ProjectForm {
	f := &ProjectForm{
		Name:        v.Get("name"),
		Location:    v.Get("location"),
		Status:      v.Get("status"),
		Description: v.Get("description"),
	}
	if !workflow.IsValid(workflow.ProjectStatuses, f.Status) {
		f.Status = workflow.ProjectActive
	}
	return f
}

func (f *ProjectForm) Validate() error {
	return required("name", f.Name, "Introduceți numele proiectului")
}

// Project builds the request body.
func (f *ProjectForm) Project() api.Project {
	return api.Project{
		Name:        strings.TrimSpace(f.Name),
		Location:    f.Location,
		Status:      f.Status,
		Description: f.Description,
	}
}

// Product

// ProductForm is the create form of a catalog product.
type ProductForm struct {
	CanonicalName string
	Category      string
	BaseUOM       string
}

// NewProductForm returns a product form defaulting to the unit UOM.
func NewProductForm() *ProductForm {
	return &ProductForm{BaseUOM: workflow.DefaultUOM}
}

// ParseProduct reads a posted product form.
func ParseProduct(v url.Values) *ProductForm {
	f := &ProductForm{
		CanonicalName: v.Get("canonical_name"),
		Category:      v.Get("category"),
		BaseUOM:       v.Get("base_uom"),
	}
	if !workflow.IsValid(workflow.UOMs, f.BaseUOM) {
		f.BaseUOM = workflow.DefaultUOM
	}
	return f
}

func (f *ProductForm) Validate() error {
	return required("canonical_name", f.CanonicalName, "Introduceți numele produsului")
}

// Product builds the request body.
func (f *ProductForm) Product() api.Product {
	return api.Product{
		CanonicalName: strings.TrimSpace(f.CanonicalName),
		Category:      strings.TrimSpace(f.Category),
		BaseUOM:       f.BaseUOM,
	}
}

// Alert rule

// AlertRuleForm is the create form of an alert rule.
type AlertRuleForm struct {
	Name             string
	Type             string
	ThresholdPercent float64
	CompareLastN     int
	IsActive         bool
}

// NewAlertRuleForm returns the default rule: 10% against the last 3 prices.
func NewAlertRuleForm() *AlertRuleForm {
	return &AlertRuleForm{
		Type:             workflow.RuleThresholdVsLast,
		ThresholdPercent: 10,
		CompareLastN:     3,
		IsActive:         true,
	}
}

// ParseAlertRule reads a posted rule form; unparseable numbers keep defaults.
func ParseAlertRule(v url.Values) *AlertRuleForm {
	f := NewAlertRuleForm()
	f.Name = v.Get("name")
	if t := v.Get("type"); workflow.IsValid(workflow.RuleTypes, t) {
		f.Type = t
	}
	if pct, err := strconv.ParseFloat(v.Get("threshold_percent"), 64); err == nil {
		f.ThresholdPercent = pct
	}
	if n, err := strconv.Atoi(v.Get("compare_last_n")); err == nil {
		f.CompareLastN = n
	}
	if v.Has("is_active") {
		f.IsActive = v.Get("is_active") == "true" || v.Get("is_active") == "on"
	}
	return f
}

func (f *AlertRuleForm) Validate() error {
	return required("name", f.Name, "Introduceți numele regulii")
}

// AlertRule builds the request body.
func (f *AlertRuleForm) AlertRule() api.AlertRule {
	return api.AlertRule{
		Name: strings.TrimSpace(f.Name),
		Type: f.Type,
		Params: api.AlertParams{
			ThresholdPercent: f.ThresholdPercent,
			CompareLastN:     f.CompareLastN,
		},
		IsActive: f.IsActive,
	}
}
