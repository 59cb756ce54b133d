package handlers

import (
	"net/http"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
	"github.com/TheDeveloper404/ConstructionIQ/internal/templates"
)

// Dashboard renders the dashboard page.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	page := templates.PageData{Title: "Panou de Control", ActiveNav: "dashboard"}

	stats, err := h.client(r).DashboardStats(r.Context())
	if err != nil {
		if page.Flash = h.loadError(w, r, err, "Eroare la încărcarea datelor din panou"); page.Flash == nil {
			return
		}
		stats = &api.DashboardStats{}
	}

	page.Data = stats
	h.render(w, r, "dashboard", page)
}
