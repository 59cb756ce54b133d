// Package workflow provides status enums, display labels and the legal
// client-side transitions of procurement entities.
package workflow

import (
	"errors"
	"slices"
)

// Option is a selectable enum value with its display label.
type Option struct {
	Value string
	Label string
}

// RFQ statuses.
const (
	RFQDraft  = "draft"
	RFQSent   = "sent"
	RFQClosed = "closed"
)

// Quote statuses.
const (
	QuoteReceived  = "received"
	QuoteValidated = "validated"
	QuoteArchived  = "archived"
)

// Project statuses.
const (
	ProjectActive    = "active"
	ProjectCompleted = "completed"
	ProjectOnHold    = "on_hold"
)

// Alert event statuses.
const (
	EventNew = "new"
	EventAck = "ack"
)

// Alert rule types.
const (
	RuleThresholdVsLast = "threshold_vs_last"
	RuleThresholdVsAvg  = "threshold_vs_avg"
)

var (
	RFQStatuses = []Option{
		{RFQDraft, "Ciornă"},
		{RFQSent, "Trimisă"},
		{RFQClosed, "Închisă"},
	}

	QuoteStatuses = []Option{
		{QuoteReceived, "Primită"},
		{QuoteValidated, "Validată"},
		{QuoteArchived, "Arhivată"},
	}

	ProjectStatuses = []Option{
		{ProjectActive, "Activ"},
		{ProjectOnHold, "Suspendat"},
		{ProjectCompleted, "Finalizat"},
	}

	EventStatuses = []Option{
		{EventNew, "Nouă"},
		{EventAck, "Confirmată"},
	}

	Severities = []Option{
		{"high", "Ridicată"},
		{"medium", "Medie"},
		{"low", "Scăzută"},
	}

	RuleTypes = []Option{
		{RuleThresholdVsLast, "Prag vs Ultimul Preț"},
		{RuleThresholdVsAvg, "Prag vs Medie"},
	}

	UOMs = []Option{
		{"unit", "Bucată"},
		{"ton", "Tonă"},
		{"kg", "Kg"},
		{"m", "Metru"},
		{"mp", "Metru pătrat"},
		{"mc", "Metru cub"},
		{"sac", "Sac"},
	}

	Currencies = []Option{
		{"RON", "RON"},
		{"EUR", "EUR"},
		{"USD", "USD"},
	}
)

// DefaultCurrency is preselected on new quotes.
const DefaultCurrency = "RON"

// DefaultUOM is the unit of a fresh item row.
const DefaultUOM = "unit"

// statusLabels covers every entity's statuses; they share one namespace.
var statusLabels = func() map[string]string {
	m := map[string]string{}
	for _, group := range [][]Option{RFQStatuses, QuoteStatuses, ProjectStatuses, EventStatuses} {
		for _, o := range group {
			m[o.Value] = o.Label
		}
	}
	m["resolved"] = "Rezolvată"
	return m
}()

// StatusLabel returns the display label of a status, or the raw value when
// it is unknown.
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// SeverityLabel returns the display label of an alert severity.
func SeverityLabel(severity string) string {
	return labelOf(Severities, severity)
}

// UOMLabel returns the display label of a unit of measure.
func UOMLabel(uom string) string {
	return labelOf(UOMs, uom)
}

// SourceLabel returns the display label of a price point source.
func SourceLabel(source string) string {
	if source == "quote" {
		return "Ofertă"
	}
	return "Achiziție"
}

// RuleTypeLabel returns the display label of an alert rule type.
func RuleTypeLabel(t string) string {
	return labelOf(RuleTypes, t)
}

func labelOf(opts []Option, value string) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// IsValid checks if value is one of opts.
func IsValid(opts []Option, value string) bool {
	return slices.ContainsFunc(opts, func(o Option) bool { return o.Value == value })
}

// Errors returned by RFQ transition checks.
var (
	ErrAlreadySent = errors.New("RFQ already sent")
	ErrNoSuppliers = errors.New("No suppliers selected")
)

// SendOffered reports whether the send action is shown for an RFQ.
func SendOffered(status string) bool {
	return status == RFQDraft
}

// CanSend checks whether an RFQ may be sent. A nil error means the request
// should be issued.
func CanSend(status string, supplierIDs []string) error {
	if !SendOffered(status) {
		return ErrAlreadySent
	}
	if len(supplierIDs) == 0 {
		return ErrNoSuppliers
	}
	return nil
}

// CanClose reports whether a sent RFQ may be closed.
func CanClose(status string) bool {
	return status == RFQSent
}

// CanAcknowledge reports whether an alert event may be acknowledged.
func CanAcknowledge(status string) bool {
	return status == EventNew
}
