package handlers

import (
	"errors"
	"net/http"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
	"github.com/TheDeveloper404/ConstructionIQ/internal/forms"
	"github.com/TheDeveloper404/ConstructionIQ/internal/listing"
	"github.com/TheDeveloper404/ConstructionIQ/internal/templates"
	"github.com/TheDeveloper404/ConstructionIQ/internal/workflow"
)

// ProjectListData contains data for the project list template.
type ProjectListData struct {
	State    listing.State[api.Project]
	Pager    Pager
	Status   string
	Statuses []workflow.Option
}

// ProjectFormData contains data for the project form template.
type ProjectFormData struct {
	Project  *api.Project
	Form     *forms.ProjectForm
	Statuses []workflow.Option
}

// ProjectList renders the project list page.
func (h *Handlers) ProjectList(w http.ResponseWriter, r *http.Request) {
	page := templates.PageData{Title: "Proiecte", ActiveNav: "projects"}

	st, err := openList(r.Context(), r, h.client(r).ListProjects, h.pageSize, "status")
	if err != nil {
		if page.Flash = h.loadError(w, r, err, "Eroare la încărcarea proiectelor"); page.Flash == nil {
			return
		}
	}

	page.Data = ProjectListData{
		State:    st,
		Pager:    newPager("/projects", st),
		Status:   st.Filters["status"],
		Statuses: workflow.ProjectStatuses,
	}
	h.render(w, r, "projects", page)
}

// ProjectNew renders the empty project form.
func (h *Handlers) ProjectNew(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "project_form", templates.PageData{
		Title:     "Adaugă Proiect Nou",
		ActiveNav: "projects",
		Data:      ProjectFormData{Form: forms.NewProjectForm(), Statuses: workflow.ProjectStatuses},
	})
}

// ProjectCreate handles the new project form.
func (h *Handlers) ProjectCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "/projects/new", "error", "Date de formular invalide")
		return
	}

	form := forms.ParseProject(r.PostForm)
	if err := form.Validate(); err != nil {
		h.rerenderProject(w, r, nil, form, err)
		return
	}

	if _, err := h.client(r).CreateProject(r.Context(), form.Project()); err != nil {
		if h.abort(w, r, err) {
			return
		}
		h.rerenderProject(w, r, nil, form, errors.New(api.Message(err, "Eroare la crearea proiectului")))
		return
	}

	h.success(w, r, "/projects", "Proiect creat cu succes")
}

// ProjectDetail renders a project with its edit form.
func (h *Handlers) ProjectDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "/projects", "Proiectul nu a fost găsit")
	if !ok {
		return
	}

	p, err := h.client(r).GetProject(r.Context(), id)
	if err != nil {
		h.detailFailed(w, r, err, "Eroare la încărcarea proiectului", "Proiectul nu a fost găsit", "/projects")
		return
	}

	h.render(w, r, "project_form", templates.PageData{
		Title:     p.Name,
		ActiveNav: "projects",
		Data:      ProjectFormData{Project: p, Form: forms.ProjectFormFrom(*p), Statuses: workflow.ProjectStatuses},
	})
}

// ProjectUpdate handles the project edit form.
func (h *Handlers) ProjectUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "/projects", "Proiectul nu a fost găsit")
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "/projects/"+id, "error", "Date de formular invalide")
		return
	}

	existing := &api.Project{ID: id}
	form := forms.ParseProject(r.PostForm)
	if err := form.Validate(); err != nil {
		h.rerenderProject(w, r, existing, form, err)
		return
	}

	if _, err := h.client(r).UpdateProject(r.Context(), id, form.Project()); err != nil {
		if h.abort(w, r, err) {
			return
		}
		h.rerenderProject(w, r, existing, form, errors.New(api.Message(err, "Eroare la actualizarea proiectului")))
		return
	}

	h.success(w, r, "/projects/"+id, "Proiect actualizat")
}

func (h *Handlers) rerenderProject(w http.ResponseWriter, r *http.Request, p *api.Project, form *forms.ProjectForm, err error) {
	title := "Adaugă Proiect Nou"
	if p != nil {
		title = form.Name
	}
	h.render(w, r, "project_form", templates.PageData{
		Title:     title,
		ActiveNav: "projects",
		Flash:     &templates.Flash{Type: "error", Message: err.Error()},
		Data:      ProjectFormData{Project: p, Form: form, Statuses: workflow.ProjectStatuses},
	})
}

// ProjectDeleteConfirm asks before deleting a project.
func (h *Handlers) ProjectDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "/projects", "Proiectul nu a fost găsit")
	if !ok {
		return
	}
	h.confirm(w, r, "projects", ConfirmData{
		Title:     "Ștergere proiect",
		Message:   "Ștergeți acest proiect? Această acțiune nu poate fi anulată.",
		Action:    "/projects/" + id + "/delete",
		CancelURL: "/projects/" + id,
	})
}

// ProjectDelete deletes a project once confirmed.
func (h *Handlers) ProjectDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "/projects", "Proiectul nu a fost găsit")
	if !ok {
		return
	}
	if !confirmed(r) {
		http.Redirect(w, r, "/projects/"+id, http.StatusSeeOther)
		return
	}

	if err := h.client(r).DeleteProject(r.Context(), id); err != nil {
		h.fail(w, r, err, "Eroare la ștergerea proiectului", "/projects/"+id)
		return
	}

	h.success(w, r, "/projects", "Proiect șters")
}
