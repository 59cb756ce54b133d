package handlers

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
	"github.com/TheDeveloper404/ConstructionIQ/internal/export"
	"github.com/TheDeveloper404/ConstructionIQ/internal/pricing"
	"github.com/TheDeveloper404/ConstructionIQ/internal/templates"
	"github.com/TheDeveloper404/ConstructionIQ/internal/workflow"
)

const (
	chartWidth   = 720
	chartHeight  = 280
	chartPadding = 24
)

// WindowOption is a selectable price-history window.
type WindowOption struct {
	Days  int
	Label string
}

var windowOptions = []WindowOption{
	{30, "Ultimele 30 zile"},
	{90, "Ultimele 90 zile"},
	{180, "Ultimele 6 luni"},
	{365, "Ultimul an"},
}

// PriceHistoryData contains data for the price history template.
type PriceHistoryData struct {
	Products  []api.Product
	ProductID string
	Days      int
	Windows   []WindowOption
	History   *api.PriceHistory
	Stats     pricing.Stats
	HasStats  bool
	Trend     pricing.Trend
	Chart     pricing.Chart
	// Points are newest first for the table.
	Points []api.PricePoint
}

// selection resolves the product and window from the query string. The
// product defaults to the first catalog product.
func selection(q url.Values, products []api.Product) (string, int) {
	days, _ := strconv.Atoi(q.Get("days"))
	days = workflow.NormalizeWindow(days)

	productID := q.Get("product")
	if productID == "" && len(products) > 0 {
		productID = products[0].ID
	}
	return productID, days
}

func (h *Handlers) loadPriceHistory(ctx context.Context, client *api.Client, q url.Values) (*PriceHistoryData, error) {
	products, err := client.AllProducts(ctx)
	if err != nil {
		return nil, err
	}

	productID, days := selection(q, products)
	data := &PriceHistoryData{
		Products:  products,
		ProductID: productID,
		Days:      days,
		Windows:   windowOptions,
	}
	if productID == "" {
		return data, nil
	}

	history, err := client.PriceHistory(ctx, productID, days)
	if err != nil {
		return data, err
	}
	data.History = history
	data.Stats, data.HasStats = pricing.Compute(history.PricePoints)
	data.Trend = data.Stats.Trend()
	data.Chart = pricing.BuildChart(history.PricePoints, chartWidth, chartHeight, chartPadding)
	data.Points = slices.Clone(history.PricePoints)
	slices.Reverse(data.Points)
	return data, nil
}

// PriceHistory renders the price history of one product.
func (h *Handlers) PriceHistory(w http.ResponseWriter, r *http.Request) {
	page := templates.PageData{Title: "Istoric Prețuri", ActiveNav: "price-history"}

	data, err := h.loadPriceHistory(r.Context(), h.client(r), r.URL.Query())
	if err != nil {
		fallback := "Eroare la încărcarea istoricului prețurilor"
		if data == nil {
			fallback = "Eroare la încărcarea produselor"
			data = &PriceHistoryData{Windows: windowOptions, Days: workflow.DefaultPriceWindow}
		}
		if page.Flash = h.loadError(w, r, err, fallback); page.Flash == nil {
			return
		}
	}

	page.Data = data
	h.render(w, r, "price_history", page)
}

// PriceHistoryXLSX downloads the selected product's price history.
func (h *Handlers) PriceHistoryXLSX(w http.ResponseWriter, r *http.Request) {
	back := "/price-history?" + r.URL.RawQuery

	data, err := h.loadPriceHistory(r.Context(), h.client(r), r.URL.Query())
	if err != nil {
		h.fail(w, r, err, "Eroare la încărcarea istoricului prețurilor", back)
		return
	}
	if data.History == nil {
		h.redirect(w, r, "/price-history", "error", "Selectează un produs")
		return
	}

	var buf bytes.Buffer
	if err := export.WritePriceHistory(&buf, data.History, data.Days); err != nil {
		slog.Error("failed to generate price history workbook", "error", err, "product_id", data.ProductID)
		h.redirect(w, r, back, "error", "Eroare la generarea fișierului")
		return
	}
	h.download(w, export.KindPriceHistoryXLSX, export.ContentTypeXLSX,
		export.Filename(export.KindPriceHistoryXLSX, data.ProductID), buf.Bytes())
}
