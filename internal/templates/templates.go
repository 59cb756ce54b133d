// Package templates provides HTML template rendering for the web client.
package templates

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
	"github.com/TheDeveloper404/ConstructionIQ/internal/demo"
	"github.com/TheDeveloper404/ConstructionIQ/internal/pricing"
	"github.com/TheDeveloper404/ConstructionIQ/internal/workflow"
)

// Engine is an HTML template rendering engine.
type Engine struct {
	templates map[string]*template.Template
}

// templateFuncs returns the common template functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"plus": func(a, b int) int {
			return a + b
		},
		"minus": func(a, b int) int {
			return a - b
		},
		"statusLabel":   workflow.StatusLabel,
		"severityLabel": workflow.SeverityLabel,
		"uomLabel":      workflow.UOMLabel,
		"ruleTypeLabel": workflow.RuleTypeLabel,
		"sourceLabel":   workflow.SourceLabel,
		"formatChange":  pricing.FormatChange,
		"date":          formatDate,
		"datetime":      formatDateTime,
		"number":        formatNumber,
		"money":         formatMoney,
		"deref":         deref,
		"contains":      contains,
		"join":          strings.Join,
		"query":         url.QueryEscape,
	}
}

func formatDate(ts api.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("02.01.2006")
}

func formatDateTime(ts api.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("02.01.2006 15:04")
}

// formatNumber prints a float with at most two decimals and no trailing zeros.
func formatNumber(f float64) string {
	return decimal.NewFromFloat(f).Round(2).String()
}

func formatMoney(v any, currency string) string {
	switch n := v.(type) {
	case decimal.Decimal:
		return n.StringFixed(2) + " " + currency
	case float64:
		return decimal.NewFromFloat(n).StringFixed(2) + " " + currency
	case int:
		return decimal.NewFromInt(int64(n)).StringFixed(2) + " " + currency
	default:
		return fmt.Sprint(v)
	}
}

func contains(list []string, v string) bool {
	return slices.Contains(list, v)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// New creates a new template engine using the provided filesystem.
// It expects a base.html template and other templates that extend it.
func New(fsys fs.FS) (*Engine, error) {
	engine := &Engine{
		templates: make(map[string]*template.Template),
	}

	baseContent, err := fs.ReadFile(fsys, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("failed to read base template: %w", err)
	}

	entries, err := fs.ReadDir(fsys, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == "base.html" || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".html")
		pageContent, err := fs.ReadFile(fsys, "templates/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", entry.Name(), err)
		}

		combined := string(baseContent) + "\n" + string(pageContent)
		tmpl, err := template.New(name).Funcs(templateFuncs()).Parse(combined)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", entry.Name(), err)
		}

		engine.templates[name] = tmpl
	}

	return engine, nil
}

// Render renders the named template with the given data. Nothing is written
// when execution fails.
func (e *Engine) Render(w io.Writer, name string, data any) error {
	tmpl, ok := e.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Has reports whether a page template is loaded.
func (e *Engine) Has(name string) bool {
	_, ok := e.templates[name]
	return ok
}

// PageData provides common data for page templates.
type PageData struct {
	Title     string
	ActiveNav string
	User      *api.User
	Flash     *Flash
	Demo      demo.Status
	Data      any
}

// Flash represents a flash message to display.
type Flash struct {
	Type    string // "success", "error"
	Message string
}

// FlashFromQuery reads a flash message from ?success= or ?error=.
func FlashFromQuery(q url.Values) *Flash {
	if msg := q.Get("error"); msg != "" {
		return &Flash{Type: "error", Message: msg}
	}
	if msg := q.Get("success"); msg != "" {
		return &Flash{Type: "success", Message: msg}
	}
	return nil
}

// NavItem is an entry of the sidebar.
type NavItem struct {
	Key   string
	Label string
	Href  string
}

// Nav is the sidebar of every authenticated page.
var Nav = []NavItem{
	{"dashboard", "Panou", "/"},
	{"projects", "Proiecte", "/projects"},
	{"suppliers", "Furnizori", "/suppliers"},
	{"rfqs", "Cereri de Ofertă", "/rfqs"},
	{"quotes", "Oferte", "/quotes"},
	{"catalog", "Catalog", "/catalog"},
	{"price-history", "Istoric Prețuri", "/price-history"},
	{"alerts", "Alerte", "/alerts"},
}

// NavItems returns the sidebar for templates.
func (PageData) NavItems() []NavItem {
	return Nav
}
