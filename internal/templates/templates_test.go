package templates

import (
	"bytes"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
	"github.com/TheDeveloper404/ConstructionIQ/web"
)

func TestNew_LoadsPages(t *testing.T) {
	engine, err := New(web.TemplatesFS)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	pages := []string{
		"login", "confirm", "dashboard",
		"suppliers", "supplier_form", "projects", "project_form",
		"rfqs", "rfq_form", "rfq_detail",
		"quotes", "quote_form", "quote_detail", "quote_compare",
		"catalog", "price_history", "alerts",
	}
	for _, name := range pages {
		if !engine.Has(name) {
			t.Errorf("Has(%q) = false, want true", name)
		}
	}
	if engine.Has("base") {
		t.Error("Has(\"base\") = true, base is a layout")
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	engine, err := New(web.TemplatesFS)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var buf bytes.Buffer
	if err := engine.Render(&buf, "missing", PageData{}); err == nil {
		t.Error("Render() error = nil, want error")
	}
	if buf.Len() != 0 {
		t.Errorf("Render() wrote %d bytes, want 0", buf.Len())
	}
}

func TestRender_Confirm(t *testing.T) {
	engine, err := New(web.TemplatesFS)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var buf bytes.Buffer
	err = engine.Render(&buf, "confirm", PageData{
		Title: "Ștergere furnizor",
		User:  &api.User{Email: "ana@example.ro"},
		Data: map[string]string{
			"Title":        "Ștergere furnizor",
			"Message":      "Sigur doriți să ștergeți acest furnizor?",
			"Action":       "/suppliers/x/delete",
			"ConfirmLabel": "Șterge",
			"CancelURL":    "/suppliers/x",
		},
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	body := buf.String()
	for _, want := range []string{`action="/suppliers/x/delete"`, `name="confirm" value="yes"`, "ana@example.ro"} {
		if !strings.Contains(body, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}
}

func TestFlashFromQuery(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
		want  *Flash
	}{
		{"none", url.Values{}, nil},
		{"success", url.Values{"success": {"Salvat"}}, &Flash{Type: "success", Message: "Salvat"}},
		{"error wins", url.Values{"success": {"Salvat"}, "error": {"Eroare"}}, &Flash{Type: "error", Message: "Eroare"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlashFromQuery(tt.query)
			if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
				t.Errorf("FlashFromQuery() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want string
	}{
		{"decimal", decimal.RequireFromString("1234.5"), "1234.50 RON"},
		{"float", 9.999, "10.00 RON"},
		{"int", 3, "3.00 RON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatMoney(tt.v, "RON"); got != tt.want {
				t.Errorf("formatMoney(%v) = %q, want %q", tt.v, got, tt.want)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	if got := formatDate(api.Timestamp{}); got != "-" {
		t.Errorf("formatDate(zero) = %q, want %q", got, "-")
	}
	ts := api.Timestamp{Time: time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)}
	if got := formatDate(ts); got != "01.03.2024" {
		t.Errorf("formatDate() = %q, want %q", got, "01.03.2024")
	}
	if got := formatNumber(2.5); got != "2.5" {
		t.Errorf("formatNumber(2.5) = %q, want %q", got, "2.5")
	}
}

func TestPageData_NavItems(t *testing.T) {
	items := PageData{ActiveNav: "quotes"}.NavItems()

	if len(items) != 8 {
		t.Fatalf("len(NavItems()) = %d, want 8", len(items))
	}
	if items[0].Href != "/" {
		t.Errorf("first Href = %q, want %q", items[0].Href, "/")
	}
}
