package handlers

import (
	"errors"
	"net/http"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
	"github.com/TheDeveloper404/ConstructionIQ/internal/forms"
	"github.com/TheDeveloper404/ConstructionIQ/internal/listing"
	"github.com/TheDeveloper404/ConstructionIQ/internal/templates"
)

// SupplierListData contains data for the supplier list template.
type SupplierListData struct {
	State  listing.State[api.Supplier]
	Pager  Pager
	Search string
}

// SupplierFormData contains data for the supplier form template.
type SupplierFormData struct {
	Supplier *api.Supplier
	Form     *forms.SupplierForm
}

// SupplierList renders the supplier list page.
func (h *Handlers) SupplierList(w http.ResponseWriter, r *http.Request) {
	page := templates.PageData{Title: "Furnizori", ActiveNav: "suppliers"}

	st, err := openList(r.Context(), r, h.client(r).ListSuppliers, h.pageSize, "search")
	if err != nil {
		if page.Flash = h.loadError(w, r, err, "Eroare la încărcarea furnizorilor"); page.Flash == nil {
			return
		}
	}

	page.Data = SupplierListData{
		State:  st,
		Pager:  newPager("/suppliers", st),
		Search: st.Filters["search"],
	}
	h.render(w, r, "suppliers", page)
}

// SupplierNew renders the empty supplier form.
func (h *Handlers) SupplierNew(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "supplier_form", templates.PageData{
		Title:     "Adaugă Furnizor Nou",
		ActiveNav: "suppliers",
		Data:      SupplierFormData{Form: forms.NewSupplierForm()},
	})
}

// SupplierCreate handles the new supplier form.
func (h *Handlers) SupplierCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "/suppliers/new", "error", "Date de formular invalide")
		return
	}

	form := forms.ParseSupplier(r.PostForm)
	if err := form.Validate(); err != nil {
		h.rerenderSupplier(w, r, nil, form, err)
		return
	}

	if _, err := h.client(r).CreateSupplier(r.Context(), form.Supplier()); err != nil {
		if h.abort(w, r, err) {
			return
		}
		h.rerenderSupplier(w, r, nil, form, errors.New(api.Message(err, "Eroare la adăugarea furnizorului")))
		return
	}

	h.success(w, r, "/suppliers", "Furnizor adăugat cu succes")
}

// SupplierDetail renders a supplier with its edit form.
func (h *Handlers) SupplierDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "/suppliers", "Furnizorul nu a fost găsit")
	if !ok {
		return
	}

	s, err := h.client(r).GetSupplier(r.Context(), id)
	if err != nil {
		h.detailFailed(w, r, err, "Eroare la încărcarea furnizorului", "Furnizorul nu a fost găsit", "/suppliers")
		return
	}

	h.render(w, r, "supplier_form", templates.PageData{
		Title:     s.Name,
		ActiveNav: "suppliers",
		Data:      SupplierFormData{Supplier: s, Form: forms.SupplierFormFrom(*s)},
	})
}

// SupplierUpdate handles the supplier edit form.
func (h *Handlers) SupplierUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "/suppliers", "Furnizorul nu a fost găsit")
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "/suppliers/"+id, "error", "Date de formular invalide")
		return
	}

	existing := &api.Supplier{ID: id}
	form := forms.ParseSupplier(r.PostForm)
	if err := form.Validate(); err != nil {
		h.rerenderSupplier(w, r, existing, form, err)
		return
	}

	if _, err := h.client(r).UpdateSupplier(r.Context(), id, form.Supplier()); err != nil {
		if h.abort(w, r, err) {
			return
		}
		h.rerenderSupplier(w, r, existing, form, errors.New(api.Message(err, "Eroare la actualizarea furnizorului")))
		return
	}

	h.success(w, r, "/suppliers/"+id, "Furnizor actualizat")
}

func (h *Handlers) rerenderSupplier(w http.ResponseWriter, r *http.Request, s *api.Supplier, form *forms.SupplierForm, err error) {
	title := "Adaugă Furnizor Nou"
	if s != nil {
		title = form.Name
	}
	h.render(w, r, "supplier_form", templates.PageData{
		Title:     title,
		ActiveNav: "suppliers",
		Flash:     &templates.Flash{Type: "error", Message: err.Error()},
		Data:      SupplierFormData{Supplier: s, Form: form},
	})
}

// SupplierDeleteConfirm asks before deleting a supplier.
func (h *Handlers) SupplierDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "/suppliers", "Furnizorul nu a fost găsit")
	if !ok {
		return
	}
	h.confirm(w, r, "suppliers", ConfirmData{
		Title:     "Ștergere furnizor",
		Message:   "Ștergeți acest furnizor? Această acțiune nu poate fi anulată.",
		Action:    "/suppliers/" + id + "/delete",
		CancelURL: "/suppliers/" + id,
	})
}

// SupplierDelete deletes a supplier once confirmed.
func (h *Handlers) SupplierDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "/suppliers", "Furnizorul nu a fost găsit")
	if !ok {
		return
	}
	if !confirmed(r) {
		http.Redirect(w, r, "/suppliers/"+id, http.StatusSeeOther)
		return
	}

	if err := h.client(r).DeleteSupplier(r.Context(), id); err != nil {
		h.fail(w, r, err, "Eroare la ștergerea furnizorului", "/suppliers/"+id)
		return
	}

	h.success(w, r, "/suppliers", "Furnizor șters")
}
