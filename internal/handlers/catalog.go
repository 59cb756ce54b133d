package handlers

import (
	"context"
	"net/http"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
	"github.com/TheDeveloper404/ConstructionIQ/internal/forms"
	"github.com/TheDeveloper404/ConstructionIQ/internal/listing"
	"github.com/TheDeveloper404/ConstructionIQ/internal/templates"
	"github.com/TheDeveloper404/ConstructionIQ/internal/workflow"
)

// CatalogData contains data for the catalog template.
type CatalogData struct {
	State      listing.State[api.Product]
	Pager      Pager
	Search     string
	Category   string
	Categories []string
	Form       *forms.ProductForm
	UOMs       []workflow.Option
}

// Catalog renders the product catalog with its create form.
func (h *Handlers) Catalog(w http.ResponseWriter, r *http.Request) {
	h.renderCatalog(w, r, forms.NewProductForm(), nil)
}

func (h *Handlers) renderCatalog(w http.ResponseWriter, r *http.Request, form *forms.ProductForm, flash *templates.Flash) {
	page := templates.PageData{Title: "Catalog Produse", ActiveNav: "catalog", Flash: flash}
	client := h.client(r)

	var st listing.State[api.Product]
	var categories []string
	err := listing.FanOut(r.Context(),
		func(ctx context.Context) (err error) {
			st, err = openList(ctx, r, client.ListProducts, h.pageSize, "search", "category")
			return err
		},
		func(ctx context.Context) (err error) {
			categories, err = client.Categories(ctx)
			return err
		},
	)
	if err != nil {
		if page.Flash = h.loadError(w, r, err, "Eroare la încărcarea produselor"); page.Flash == nil {
			return
		}
		if st.Items == nil {
			st = listing.State[api.Product]{Items: []api.Product{}, Page: 1, PageSize: h.pageSize}
		}
	}

	page.Data = CatalogData{
		State:      st,
		Pager:      newPager("/catalog", st),
		Search:     st.Filters["search"],
		Category:   st.Filters["category"],
		Categories: categories,
		Form:       form,
		UOMs:       workflow.UOMs,
	}
	h.render(w, r, "catalog", page)
}

// ProductCreate adds a product to the catalog.
func (h *Handlers) ProductCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "/catalog", "error", "Date de formular invalide")
		return
	}

	form := forms.ParseProduct(r.PostForm)
	if err := form.Validate(); err != nil {
		h.renderCatalog(w, r, form, &templates.Flash{Type: "error", Message: err.Error()})
		return
	}

	if _, err := h.client(r).CreateProduct(r.Context(), form.Product()); err != nil {
		if h.abort(w, r, err) {
			return
		}
		h.renderCatalog(w, r, form, &templates.Flash{Type: "error", Message: api.Message(err, "Eroare la adăugarea produsului")})
		return
	}

	h.success(w, r, "/catalog", "Produs adăugat cu succes")
}

// ProductDeleteConfirm asks before deleting a product.
func (h *Handlers) ProductDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "/catalog", "Produsul nu a fost găsit")
	if !ok {
		return
	}
	h.confirm(w, r, "catalog", ConfirmData{
		Title:     "Ștergere produs",
		Message:   "Ștergeți acest produs? Această acțiune nu poate fi anulată.",
		Action:    "/catalog/" + id + "/delete",
		CancelURL: "/catalog",
	})
}

// ProductDelete deletes a product once confirmed.
func (h *Handlers) ProductDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "/catalog", "Produsul nu a fost găsit")
	if !ok {
		return
	}
	if !confirmed(r) {
		http.Redirect(w, r, "/catalog", http.StatusSeeOther)
		return
	}

	if err := h.client(r).DeleteProduct(r.Context(), id); err != nil {
		h.fail(w, r, err, "Eroare la ștergerea produsului", "/catalog")
		return
	}

	h.success(w, r, "/catalog", "Produs șters")
}
