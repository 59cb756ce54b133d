package handlers

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
	"github.com/TheDeveloper404/ConstructionIQ/internal/export"
	"github.com/TheDeveloper404/ConstructionIQ/internal/forms"
	"github.com/TheDeveloper404/ConstructionIQ/internal/listing"
	"github.com/TheDeveloper404/ConstructionIQ/internal/templates"
	"github.com/TheDeveloper404/ConstructionIQ/internal/workflow"
)

// QuoteListData contains data for the quote list template.
type QuoteListData struct {
	State     listing.State[api.Quote]
	Pager     Pager
	Status    string
	Statuses  []workflow.Option
	Suppliers map[string]string
}

// SupplierName resolves the supplier of a quote for display.
func (d QuoteListData) SupplierName(q api.Quote) string {
	if name, ok := d.Suppliers[q.SupplierID]; ok {
		return name
	}
	if q.SupplierName != "" {
		return q.SupplierName
	}
	return "Furnizor necunoscut"
}

// Total returns the grand total of a quote.
func (QuoteListData) Total(q api.Quote) decimal.Decimal {
	return forms.SumLines(q.Items)
}

// QuoteFormData contains data for the quote create template.
type QuoteFormData struct {
	Form       *forms.QuoteForm
	Suppliers  []api.Supplier
	Products   []api.Product
	RFQs       []api.RFQ
	UOMs       []workflow.Option
	Currencies []workflow.Option
}

// QuoteLine is a quote item with its computed total.
type QuoteLine struct {
	Item        api.QuoteItem
	Total       decimal.Decimal
	ProductName string
}

// QuoteDetailData contains data for the quote detail template.
type QuoteDetailData struct {
	Quote      *api.Quote
	Supplier   *api.Supplier
	Lines      []QuoteLine
	GrandTotal decimal.Decimal
	Products   []api.Product
	Statuses   []workflow.Option
}

// QuoteCompareData contains data for the comparison template.
type QuoteCompareData struct {
	Quotes []api.Quote
	Totals []decimal.Decimal
	// Best is the index of the lowest total.
	Best int
}

// QuoteList renders the quote list page. Quotes and the supplier directory
// load concurrently; either failing fails the page.
func (h *Handlers) QuoteList(w http.ResponseWriter, r *http.Request) {
	page := templates.PageData{Title: "Oferte", ActiveNav: "quotes"}
	client := h.client(r)

	var st listing.State[api.Quote]
	names := map[string]string{}
	err := listing.FanOut(r.Context(),
		func(ctx context.Context) (err error) {
			st, err = openList(ctx, r, client.ListQuotes, h.pageSize, "status")
			return err
		},
		func(ctx context.Context) error {
			suppliers, err := client.AllSuppliers(ctx)
			for _, s := range suppliers {
				names[s.ID] = s.Name
			}
			return err
		},
	)
	if err != nil {
		if page.Flash = h.loadError(w, r, err, "Eroare la încărcarea ofertelor"); page.Flash == nil {
			return
		}
		st = listing.State[api.Quote]{Items: []api.Quote{}, Page: 1, PageSize: h.pageSize}
	}

	page.Data = QuoteListData{
		State:     st,
		Pager:     newPager("/quotes", st),
		Status:    st.Filters["status"],
		Statuses:  workflow.QuoteStatuses,
		Suppliers: names,
	}
	h.render(w, r, "quotes", page)
}

func (h *Handlers) loadQuoteFormData(ctx context.Context, client *api.Client, form *forms.QuoteForm) (*QuoteFormData, error) {
	data := &QuoteFormData{Form: form, UOMs: workflow.UOMs, Currencies: workflow.Currencies}
	err := listing.FanOut(ctx,
		func(ctx context.Context) (err error) {
			data.Suppliers, err = client.AllSuppliers(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			data.Products, err = client.AllProducts(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			data.RFQs, err = client.AllRFQs(ctx)
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// QuoteNew renders the quote create form.
func (h *Handlers) QuoteNew(w http.ResponseWriter, r *http.Request) {
	form := forms.NewQuoteForm()
	form.RFQID = r.URL.Query().Get("rfq_id")
	form.SupplierID = r.URL.Query().Get("supplier_id")

	data, err := h.loadQuoteFormData(r.Context(), h.client(r), form)
	if err != nil {
		h.fail(w, r, err, "Eroare la încărcarea datelor", "/quotes")
		return
	}

	h.render(w, r, "quote_form", templates.PageData{
		Title:     "Adaugă Ofertă",
		ActiveNav: "quotes",
		Data:      data,
	})
}

// QuoteCreate handles every action of the quote create form. Totals are
// recomputed from the posted rows on each render.
func (h *Handlers) QuoteCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "/quotes/new", "error", "Date de formular invalide")
		return
	}
	ctx := r.Context()
	client := h.client(r)
	form := forms.ParseQuote(r.PostForm)

	var flash *templates.Flash
	action := r.PostForm.Get("action")
	if idx := r.PostForm.Get("remove_item"); idx != "" {
		if i, err := strconv.Atoi(idx); err == nil {
			form.RemoveItem(i)
		}
		action = forms.ActionRecalc
	}

	switch action {
	case forms.ActionAddItem:
		form.AddItem()
	case forms.ActionSave:
		if err := form.Validate(); err != nil {
			flash = &templates.Flash{Type: "error", Message: err.Error()}
			break
		}
		created, err := client.CreateQuote(ctx, form.Quote())
		if err != nil {
			if h.abort(w, r, err) {
				return
			}
			slog.Error("failed to create quote", "error", err)
			flash = &templates.Flash{Type: "error", Message: api.Message(err, "Eroare la adăugarea ofertei")}
			break
		}
		h.success(w, r, "/quotes/"+created.ID, "Ofertă adăugată cu succes")
		return
	}

	data, err := h.loadQuoteFormData(ctx, client, form)
	if err != nil {
		h.fail(w, r, err, "Eroare la încărcarea datelor", "/quotes")
		return
	}
	h.render(w, r, "quote_form", templates.PageData{
		Title:     "Adaugă Ofertă",
		ActiveNav: "quotes",
		Flash:     flash,
		Data:      data,
	})
}

func (h *Handlers) loadQuoteDetail(ctx context.Context, client *api.Client, id string) (*QuoteDetailData, error) {
	data := &QuoteDetailData{Statuses: workflow.QuoteStatuses}
	err := listing.FanOut(ctx,
		func(ctx context.Context) (err error) {
			data.Quote, err = client.GetQuote(ctx, id)
			return err
		},
		func(ctx context.Context) (err error) {
			data.Products, err = client.AllProducts(ctx)
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	if data.Quote.SupplierID != "" {
		s, err := client.GetSupplier(ctx, data.Quote.SupplierID)
		switch {
		case err == nil:
			data.Supplier = s
		case api.IsUnauthorized(err), api.IsCanceled(err):
			return nil, err
		default:
			slog.Warn("failed to load quote supplier", "error", err, "supplier_id", data.Quote.SupplierID)
		}
	}

	names := productNames(data.Products)
	for _, item := range data.Quote.Items {
		line := QuoteLine{Item: item, Total: forms.LineTotal(item)}
		if item.IsMapped() {
			line.ProductName = names[*item.NormalizedProductID]
		}
		data.Lines = append(data.Lines, line)
	}
	data.GrandTotal = forms.SumLines(data.Quote.Items)
	return data, nil
}

func productNames(products []api.Product) map[string]string {
	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.CanonicalName
	}
	return names
}

func (d *QuoteDetailData) supplierName() string {
	if d.Supplier != nil {
		return d.Supplier.Name
	}
	if d.Quote.SupplierName != "" {
		return d.Quote.SupplierName
	}
	return "Furnizor necunoscut"
}

// QuoteDetail renders one quote with its lines.
func (h *Handlers) QuoteDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "/quotes", "Oferta nu a fost găsită")
	if !ok {
		return
	}

	data, err := h.loadQuoteDetail(r.Context(), h.client(r), id)
	if err != nil {
		h.detailFailed(w, r, err, "Eroare la încărcarea ofertei", "Oferta nu a fost găsită", "/quotes")
		return
	}

	h.render(w, r, "quote_detail", templates.PageData{
		Title:     "Ofertă " + data.supplierName(),
		ActiveNav: "quotes",
		Data:      data,
	})
}

// QuoteStatus changes the status of a quote.
func (h *Handlers) QuoteStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "/quotes", "Oferta nu a fost găsită")
	if !ok {
		return
	}
	detail := "/quotes/" + id

	status := r.FormValue("status")
	if !workflow.IsValid(workflow.QuoteStatuses, status) {
		h.redirect(w, r, detail, "error", "Status invalid")
		return
	}

	if _, err := h.client(r).UpdateQuoteStatus(r.Context(), id, status); err != nil {
		h.fail(w, r, err, "Eroare la actualizarea statusului", detail)
		return
	}

	h.success(w, r, detail, "Status actualizat")
}

// QuoteMapItem links an unmapped quote line to a catalog product. The
// detail page re-fetches the quote afterwards.
func (h *Handlers) QuoteMapItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "/quotes", "Oferta nu a fost găsită")
	if !ok {
		return
	}
	detail := "/quotes/" + id

	itemID, ok := h.idParam(w, r, "itemID", detail, "Articolul nu a fost găsit")
	if !ok {
		return
	}
	productID := r.FormValue("product_id")
	if productID == "" || productID == "none" {
		h.redirect(w, r, detail, "error", "Selectați un produs")
		return
	}

	client := h.client(r)
	q, err := client.GetQuote(r.Context(), id)
	if err != nil {
		h.detailFailed(w, r, err, "Eroare la încărcarea ofertei", "Oferta nu a fost găsită", "/quotes")
		return
	}
	item, ok := q.Item(itemID)
	if !ok {
		h.redirect(w, r, detail, "error", "Articolul nu a fost găsit")
		return
	}
	if item.IsMapped() {
		h.redirect(w, r, detail, "error", "Articolul este deja mapat")
		return
	}

	if err := client.MapQuoteItem(r.Context(), id, itemID, productID); err != nil {
		h.fail(w, r, err, "Eroare la maparea articolului", detail)
		return
	}

	h.success(w, r, detail, "Articol mapat la produs")
}

// QuoteDeleteConfirm asks before deleting a quote.
func (h *Handlers) QuoteDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "/quotes", "Oferta nu a fost găsită")
	if !ok {
		return
	}
	h.confirm(w, r, "quotes", ConfirmData{
		Title:     "Ștergere ofertă",
		Message:   "Ștergeți această ofertă? Această acțiune nu poate fi anulată.",
		Action:    "/quotes/" + id + "/delete",
		CancelURL: "/quotes/" + id,
	})
}

// QuoteDelete deletes a quote once confirmed.
func (h *Handlers) QuoteDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "/quotes", "Oferta nu a fost găsită")
	if !ok {
		return
	}
	if !confirmed(r) {
		http.Redirect(w, r, "/quotes/"+id, http.StatusSeeOther)
		return
	}

	if err := h.client(r).DeleteQuote(r.Context(), id); err != nil {
		h.fail(w, r, err, "Eroare la ștergerea ofertei", "/quotes/"+id)
		return
	}

	h.success(w, r, "/quotes", "Ofertă ștearsă")
}

// QuoteXLSX downloads the lines of one quote.
func (h *Handlers) QuoteXLSX(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "/quotes", "Oferta nu a fost găsită")
	if !ok {
		return
	}

	data, err := h.loadQuoteDetail(r.Context(), h.client(r), id)
	if err != nil {
		h.detailFailed(w, r, err, "Eroare la încărcarea ofertei", "Oferta nu a fost găsită", "/quotes")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteQuote(&buf, *data.Quote, data.supplierName(), productNames(data.Products)); err != nil {
		slog.Error("failed to generate quote workbook", "error", err, "quote_id", id)
		h.redirect(w, r, "/quotes/"+id, "error", "Eroare la generarea fișierului")
		return
	}
	h.download(w, export.KindQuoteXLSX, export.ContentTypeXLSX, export.Filename(export.KindQuoteXLSX, id), buf.Bytes())
}

// QuotesXLSX downloads up to one hundred quotes matching the status filter.
func (h *Handlers) QuotesXLSX(w http.ResponseWriter, r *http.Request) {
	client := h.client(r)
	filters := filtersFromQuery(r, "status")

	var quotes []api.Quote
	names := map[string]string{}
	err := listing.FanOut(r.Context(),
		func(ctx context.Context) error {
			page, err := client.ListQuotes(ctx, api.ListParams{Page: 1, PageSize: api.AllPageSize, Filters: filters})
			if err == nil {
				quotes = page.Items
			}
			return err
		},
		func(ctx context.Context) error {
			suppliers, err := client.AllSuppliers(ctx)
			for _, s := range suppliers {
				names[s.ID] = s.Name
			}
			return err
		},
	)
	if err != nil {
		h.fail(w, r, err, "Eroare la încărcarea ofertelor", "/quotes")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteQuotes(&buf, quotes, names); err != nil {
		slog.Error("failed to generate quotes workbook", "error", err)
		h.redirect(w, r, "/quotes", "error", "Eroare la generarea fișierului")
		return
	}
	h.download(w, export.KindQuotesXLSX, export.ContentTypeXLSX, export.Filename(export.KindQuotesXLSX, ""), buf.Bytes())
}

// compareIDs reads quote ids from repeated or comma-separated quote_ids.
func compareIDs(r *http.Request) []string {
	var ids []string
	for _, v := range r.URL.Query()["quote_ids"] {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); api.IsValidID(id) {
				ids = append(ids, id)
			}
		}
	}
	return forms.Dedupe(ids)
}

// QuoteCompare renders quotes side by side. Fewer than two quotes are
// rejected without calling the backend.
func (h *Handlers) QuoteCompare(w http.ResponseWriter, r *http.Request) {
	ids := compareIDs(r)
	if len(ids) < 2 {
		h.redirect(w, r, "/quotes", "error", "Selectați cel puțin două oferte pentru comparare")
		return
	}

	quotes, err := h.client(r).CompareQuotes(r.Context(), ids)
	if err != nil {
		h.fail(w, r, err, "Eroare la compararea ofertelor", "/quotes")
		return
	}

	data := QuoteCompareData{Quotes: quotes, Best: -1}
	for i, q := range quotes {
		total := forms.SumLines(q.Items)
		data.Totals = append(data.Totals, total)
		if data.Best < 0 || total.LessThan(data.Totals[data.Best]) {
			data.Best = i
		}
	}

	h.render(w, r, "quote_compare", templates.PageData{
		Title:     "Comparare Oferte",
		ActiveNav: "quotes",
		Data:      data,
	})
}
