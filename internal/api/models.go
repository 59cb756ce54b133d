package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Page is the backend's paginated list envelope.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// Timestamp accepts the backend's ISO-8601 variants, with or without zone
// and seconds, as well as bare dates.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses s using the layouts the backend emits.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if s == "" {
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// User is the authenticated principal returned by login and /auth/me.
type User struct {
	ID    string `json:"id"`
	OrgID string `json:"org_id"`
	Role  string `json:"role"`
	Email string `json:"email"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// LoginResult is the response of POST /auth/login.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
	DemoMode    bool   `json:"demo_mode"`
}

// DemoStatus is the response of GET /demo/status.
type DemoStatus struct {
	DemoMode   bool   `json:"demo_mode"`
	DemoOrgID  string `json:"demo_org_id"`
	DemoUserID string `json:"demo_user_id"`
}

// Supplier is a vendor that receives RFQs and submits quotes.
type Supplier struct {
	ID           string    `json:"id,omitempty"`
	Name         string    `json:"name"`
	ContactEmail string    `json:"contact_email"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	Tags         []string  `json:"tags"`
	Notes        string    `json:"notes"`
	CreatedAt    Timestamp `json:"created_at,omitzero"`
}

// Project is a construction project RFQs belong to.
type Project struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	CreatedAt   Timestamp `json:"created_at,omitzero"`
}

// RFQItem is one requested line of an RFQ.
type RFQItem struct {
	ID                  string  `json:"id,omitempty"`
	RawText             string  `json:"raw_text"`
	RequestedQty        float64 `json:"requested_qty"`
	RequestedUOM        string  `json:"requested_uom"`
	NormalizedProductID *string `json:"normalized_product_id"`
}

// RFQ is a request for quotation sent to a set of suppliers.
type RFQ struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title"`
	ProjectID   string    `json:"project_id"`
	DueDate     string    `json:"due_date,omitempty"`
	Notes       string    `json:"notes"`
	SupplierIDs []string  `json:"supplier_ids"`
	Items       []RFQItem `json:"items"`
	Status      string    `json:"status,omitempty"`
	CreatedAt   Timestamp `json:"created_at,omitzero"`
}

// QuoteItem is one priced line of a supplier quote.
type QuoteItem struct {
	ID                  string  `json:"id,omitempty"`
	RawLineText         string  `json:"raw_line_text"`
	Qty                 float64 `json:"qty"`
	UOM                 string  `json:"uom"`
	UnitPrice           float64 `json:"unit_price"`
	TotalPrice          float64 `json:"total_price,omitempty"`
	NormalizedProductID *string `json:"normalized_product_id"`
	VATIncluded         bool    `json:"vat_included"`
	LeadTimeDays        *int    `json:"lead_time_days"`
	Notes               string  `json:"notes"`
}

// IsMapped reports whether the item is linked to a catalog product.
func (i QuoteItem) IsMapped() bool {
	return i.NormalizedProductID != nil && *i.NormalizedProductID != ""
}

// Quote is a supplier's priced response, optionally tied to an RFQ.
type Quote struct {
	ID            string      `json:"id,omitempty"`
	SupplierID    string      `json:"supplier_id"`
	SupplierName  string      `json:"supplier_name,omitempty"`
	RFQID         *string     `json:"rfq_id"`
	Currency      string      `json:"currency"`
	PaymentTerms  string      `json:"payment_terms"`
	DeliveryTerms string      `json:"delivery_terms"`
	Items         []QuoteItem `json:"items"`
	TotalAmount   float64     `json:"total_amount,omitempty"`
	Status        string      `json:"status,omitempty"`
	ReceivedAt    Timestamp   `json:"received_at,omitzero"`
	CreatedAt     Timestamp   `json:"created_at,omitzero"`
}

// Item returns the line with the given id.
func (q Quote) Item(id string) (QuoteItem, bool) {
	for _, item := range q.Items {
		if item.ID == id {
			return item, true
		}
	}
	return QuoteItem{}, false
}

// Product is a normalized catalog product.
type Product struct {
	ID            string    `json:"id,omitempty"`
	CanonicalName string    `json:"canonical_name"`
	Category      string    `json:"category"`
	BaseUOM       string    `json:"base_uom"`
	CreatedAt     Timestamp `json:"created_at,omitzero"`
}

// PricePoint is one observed normalized price of a product.
type PricePoint struct {
	ID                  string    `json:"id"`
	ProductID           string    `json:"normalized_product_id"`
	UnitPriceNormalized float64   `json:"unit_price_normalized"`
	UOMNormalized       string    `json:"uom_normalized"`
	Currency            string    `json:"currency"`
	ObservedAt          Timestamp `json:"observed_at"`
	SourceType          string    `json:"source_type"`
	SupplierName        string    `json:"supplier_name"`
}

// PriceHistory is the response of GET /price-history/product/{id}.
type PriceHistory struct {
	Product     Product      `json:"product"`
	PricePoints []PricePoint `json:"price_points"`
}

// AlertParams are the tunables of an alert rule.
type AlertParams struct {
	ThresholdPercent float64 `json:"threshold_percent"`
	CompareLastN     int     `json:"compare_last_n"`
}

// AlertRule describes when a price change raises an alert.
type AlertRule struct {
	ID       string      `json:"id,omitempty"`
	Name     string      `json:"name"`
	Type     string      `json:"type"`
	Params   AlertParams `json:"params"`
	IsActive bool        `json:"is_active"`
}

// AlertPayload carries the details of a triggered alert.
type AlertPayload struct {
	ChangePercent float64 `json:"change_percent"`
	RuleName      string  `json:"rule_name"`
	NewPrice      float64 `json:"new_price"`
	LastPrice     float64 `json:"last_price"`
}

// AlertEvent is a triggered alert.
type AlertEvent struct {
	ID          string       `json:"id"`
	Severity    string       `json:"severity"`
	ProductID   string       `json:"normalized_product_id"`
	ProductName string       `json:"product_name"`
	Payload     AlertPayload `json:"payload"`
	TriggeredAt Timestamp    `json:"triggered_at"`
	Status      string       `json:"status"`
}

// DashboardStats is the response of GET /dashboard/stats.
type DashboardStats struct {
	ProjectsCount  int          `json:"projects_count"`
	SuppliersCount int          `json:"suppliers_count"`
	RFQsCount      int          `json:"rfqs_count"`
	QuotesCount    int          `json:"quotes_count"`
	ActiveAlerts   int          `json:"active_alerts"`
	RecentRFQs     []RFQ        `json:"recent_rfqs"`
	RecentQuotes   []Quote      `json:"recent_quotes"`
	RecentAlerts   []AlertEvent `json:"recent_alerts"`
}

// Ack is the {message} acknowledgement many mutations return.
type Ack struct {
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
}
