package handlers

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
	"github.com/TheDeveloper404/ConstructionIQ/internal/export"
	"github.com/TheDeveloper404/ConstructionIQ/internal/forms"
	"github.com/TheDeveloper404/ConstructionIQ/internal/listing"
	"github.com/TheDeveloper404/ConstructionIQ/internal/templates"
	"github.com/TheDeveloper404/ConstructionIQ/internal/workflow"
)

const noSuppliersMessage = "Selectați cel puțin un furnizor"

// RFQListData contains data for the RFQ list template.
type RFQListData struct {
	State    listing.State[api.RFQ]
	Pager    Pager
	Status   string
	Statuses []workflow.Option
}

// RFQFormData contains data for the RFQ create template.
type RFQFormData struct {
	Form      *forms.RFQForm
	Projects  []api.Project
	Suppliers []api.Supplier
	Products  []api.Product
	UOMs      []workflow.Option
}

// RFQDetailData contains data for the RFQ detail template.
type RFQDetailData struct {
	RFQ       *api.RFQ
	Project   *api.Project
	Suppliers []api.Supplier
	CanSend   bool
	CanClose  bool
}

// RFQList renders the RFQ list page.
func (h *Handlers) RFQList(w http.ResponseWriter, r *http.Request) {
	page := templates.PageData{Title: "Cereri de Ofertă", ActiveNav: "rfqs"}

	st, err := openList(r.Context(), r, h.client(r).ListRFQs, h.pageSize, "status")
	if err != nil {
		if page.Flash = h.loadError(w, r, err, "Eroare la încărcarea cererilor de ofertă"); page.Flash == nil {
			return
		}
	}

	page.Data = RFQListData{
		State:    st,
		Pager:    newPager("/rfqs", st),
		Status:   st.Filters["status"],
		Statuses: workflow.RFQStatuses,
	}
	h.render(w, r, "rfqs", page)
}

// loadRFQFormData fetches the pickers of the RFQ form concurrently.
func (h *Handlers) loadRFQFormData(ctx context.Context, client *api.Client, form *forms.RFQForm) (*RFQFormData, error) {
	data := &RFQFormData{Form: form, UOMs: workflow.UOMs}
	err := listing.FanOut(ctx,
		func(ctx context.Context) (err error) {
			data.Projects, err = client.AllProjects(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			data.Suppliers, err = client.AllSuppliers(ctx)
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
	return data, nil
}

// RFQNew renders the RFQ create form.
func (h *Handlers) RFQNew(w http.ResponseWriter, r *http.Request) {
	form := forms.NewRFQForm()
	form.ProjectID = r.URL.Query().Get("project_id")

	data, err := h.loadRFQFormData(r.Context(), h.client(r), form)
	if err != nil {
		h.fail(w, r, err, "Eroare la încărcarea datelor", "/rfqs")
		return
	}

	h.render(w, r, "rfq_form", templates.PageData{
		Title:     "Cerere de Ofertă Nouă",
		ActiveNav: "rfqs",
		Data:      data,
	})
}

// RFQCreate handles every action of the RFQ create form: adding and
// removing rows re-renders the form, save creates a draft and save_send
// creates and sends it.
func (h *Handlers) RFQCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "/rfqs/new", "error", "Date de formular invalide")
		return
	}
	ctx := r.Context()
	client := h.client(r)
	form := forms.ParseRFQ(r.PostForm)

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
	case forms.ActionSave, forms.ActionSaveSend:
		err := form.Validate()
		if err == nil && action == forms.ActionSaveSend {
			if workflow.CanSend(workflow.RFQDraft, form.SupplierIDs) != nil {
				err = errors.New(noSuppliersMessage)
			}
		}
		if err != nil {
			flash = &templates.Flash{Type: "error", Message: err.Error()}
			break
		}

		created, err := client.CreateRFQ(ctx, form.RFQ())
		if err != nil {
			if h.abort(w, r, err) {
				return
			}
			slog.Error("failed to create rfq", "error", err)
			flash = &templates.Flash{Type: "error", Message: api.Message(err, "Eroare la crearea cererii")}
			break
		}

		detail := "/rfqs/" + created.ID
		if action == forms.ActionSave {
			h.success(w, r, detail, "Cerere salvată ca ciornă")
			return
		}
		if _, err := client.SendRFQ(ctx, created.ID); err != nil {
			h.fail(w, r, err, "Eroare la trimiterea cererii", detail)
			return
		}
		h.success(w, r, detail, "Cerere creată și trimisă furnizorilor")
		return
	}

	data, err := h.loadRFQFormData(ctx, client, form)
	if err != nil {
		h.fail(w, r, err, "Eroare la încărcarea datelor", "/rfqs")
		return
	}
	h.render(w, r, "rfq_form", templates.PageData{
		Title:     "Cerere de Ofertă Nouă",
		ActiveNav: "rfqs",
		Flash:     flash,
		Data:      data,
	})
}

// RFQDetail renders one RFQ with its project and invited suppliers.
func (h *Handlers) RFQDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "/rfqs", "Cererea nu a fost găsită")
	if !ok {
		return
	}

	data, err := h.loadRFQDetail(r.Context(), h.client(r), id)
	if err != nil {
		h.detailFailed(w, r, err, "Eroare la încărcarea cererii de ofertă", "Cererea nu a fost găsită", "/rfqs")
		return
	}

	h.render(w, r, "rfq_detail", templates.PageData{
		Title:     data.RFQ.Title,
		ActiveNav: "rfqs",
		Data:      data,
	})
}

func (h *Handlers) loadRFQDetail(ctx context.Context, client *api.Client, id string) (*RFQDetailData, error) {
	rfq, err := client.GetRFQ(ctx, id)
	if err != nil {
		return nil, err
	}

	data := &RFQDetailData{
		RFQ:      rfq,
		CanSend:  workflow.SendOffered(rfq.Status),
		CanClose: workflow.CanClose(rfq.Status),
	}

	err = listing.FanOut(ctx,
		func(ctx context.Context) error {
			if rfq.ProjectID == "" {
				return nil
			}
			p, err := client.GetProject(ctx, rfq.ProjectID)
			if api.IsNotFound(err) {
				return nil
			}
			data.Project = p
			return err
		},
		func(ctx context.Context) (err error) {
			data.Suppliers, err = listing.LoadEach(ctx, client.GetSupplier, rfq.SupplierIDs)
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// RFQSendConfirm asks before sending an RFQ. Sending without suppliers is
// blocked before anything reaches the backend.
func (h *Handlers) RFQSendConfirm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "/rfqs", "Cererea nu a fost găsită")
	if !ok {
		return
	}

	rfq, err := h.client(r).GetRFQ(r.Context(), id)
	if err != nil {
		h.detailFailed(w, r, err, "Eroare la încărcarea cererii de ofertă", "Cererea nu a fost găsită", "/rfqs")
		return
	}
	if !h.checkSendable(w, r, rfq) {
		return
	}

	h.confirm(w, r, "rfqs", ConfirmData{
		Title:        "Trimitere cerere",
		Message:      "Trimiteți această cerere tuturor furnizorilor selectați?",
		Action:       "/rfqs/" + id + "/send",
		ConfirmLabel: "Trimite",
		CancelURL:    "/rfqs/" + id,
	})
}

// RFQSend sends a draft RFQ to its suppliers once confirmed.
func (h *Handlers) RFQSend(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "/rfqs", "Cererea nu a fost găsită")
	if !ok {
		return
	}
	detail := "/rfqs/" + id
	if !confirmed(r) {
		http.Redirect(w, r, detail, http.StatusSeeOther)
		return
	}

	client := h.client(r)
	rfq, err := client.GetRFQ(r.Context(), id)
	if err != nil {
		h.detailFailed(w, r, err, "Eroare la încărcarea cererii de ofertă", "Cererea nu a fost găsită", "/rfqs")
		return
	}
	if !h.checkSendable(w, r, rfq) {
		return
	}

	if _, err := client.SendRFQ(r.Context(), id); err != nil {
		h.fail(w, r, err, "Eroare la trimiterea cererii", detail)
		return
	}

	h.success(w, r, detail, "Cerere trimisă furnizorilor")
}

func (h *Handlers) checkSendable(w http.ResponseWriter, r *http.Request, rfq *api.RFQ) bool {
	switch err := workflow.CanSend(rfq.Status, rfq.SupplierIDs); {
	case errors.Is(err, workflow.ErrNoSuppliers):
		h.redirect(w, r, "/rfqs/"+rfq.ID, "error", noSuppliersMessage)
		return false
	case err != nil:
		h.redirect(w, r, "/rfqs/"+rfq.ID, "error", "Cererea a fost deja trimisă")
		return false
	}
	return true
}

// RFQClose closes a sent RFQ. Any other status is left untouched.
func (h *Handlers) RFQClose(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "/rfqs", "Cererea nu a fost găsită")
	if !ok {
		return
	}
	detail := "/rfqs/" + id

	client := h.client(r)
	rfq, err := client.GetRFQ(r.Context(), id)
	if err != nil {
		h.detailFailed(w, r, err, "Eroare la încărcarea cererii de ofertă", "Cererea nu a fost găsită", "/rfqs")
		return
	}
	if !workflow.CanClose(rfq.Status) {
		h.redirect(w, r, detail, "error", "Doar cererile trimise pot fi închise")
		return
	}

	if _, err := client.UpdateRFQStatus(r.Context(), id, workflow.RFQClosed); err != nil {
		h.fail(w, r, err, "Eroare la închiderea cererii", detail)
		return
	}

	h.success(w, r, detail, "Cerere închisă")
}

// RFQDeleteConfirm asks before deleting an RFQ.
func (h *Handlers) RFQDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "/rfqs", "Cererea nu a fost găsită")
	if !ok {
		return
	}
	h.confirm(w, r, "rfqs", ConfirmData{
		Title:     "Ștergere cerere",
		Message:   "Ștergeți această cerere? Această acțiune nu poate fi anulată.",
		Action:    "/rfqs/" + id + "/delete",
		CancelURL: "/rfqs/" + id,
	})
}

// RFQDelete deletes an RFQ once confirmed.
func (h *Handlers) RFQDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "/rfqs", "Cererea nu a fost găsită")
	if !ok {
		return
	}
	if !confirmed(r) {
		http.Redirect(w, r, "/rfqs/"+id, http.StatusSeeOther)
		return
	}

	if err := h.client(r).DeleteRFQ(r.Context(), id); err != nil {
		h.fail(w, r, err, "Eroare la ștergerea cererii", "/rfqs/"+id)
		return
	}

	h.success(w, r, "/rfqs", "Cerere ștearsă")
}

// RFQPDF downloads a printable RFQ.
func (h *Handlers) RFQPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "/rfqs", "Cererea nu a fost găsită")
	if !ok {
		return
	}

	data, err := h.loadRFQDetail(r.Context(), h.client(r), id)
	if err != nil {
		h.detailFailed(w, r, err, "Eroare la încărcarea cererii de ofertă", "Cererea nu a fost găsită", "/rfqs")
		return
	}

	doc := export.RFQDocument{
		RFQ:       *data.RFQ,
		DetailURL: h.baseURL + "/rfqs/" + id,
	}
	if data.Project != nil {
		doc.ProjectName = data.Project.Name
	}
	for _, s := range data.Suppliers {
		doc.Suppliers = append(doc.Suppliers, s.Name)
	}

	var buf bytes.Buffer
	if err := export.WriteRFQ(&buf, doc); err != nil {
		slog.Error("failed to generate rfq pdf", "error", err, "rfq_id", id)
		h.redirect(w, r, "/rfqs/"+id, "error", "Eroare la generarea PDF-ului")
		return
	}
	h.download(w, export.KindRFQPDF, export.ContentTypePDF, export.Filename(export.KindRFQPDF, id), buf.Bytes())
}

// download writes a generated document as an attachment.
func (h *Handlers) download(w http.ResponseWriter, kind, contentType, filename string, body []byte) {
	if h.metrics != nil {
		h.metrics.RecordExport(kind)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Write(body)
}
