package handlers

import (
	"net/http"

	"github.com/TheDeveloper404/ConstructionIQ/internal/templates"
)

// ConfirmData is shown on the confirmation page of a destructive action.
type ConfirmData struct {
	Title        string
	Message      string
	Action       string
	ConfirmLabel string
	CancelURL    string
}

// confirmed reports whether the user accepted the confirmation page. Every
// destructive POST must check it before calling the backend.
func confirmed(r *http.Request) bool {
	return r.FormValue("confirm") == "yes"
}

func (h *Handlers) confirm(w http.ResponseWriter, r *http.Request, nav string, data ConfirmData) {
	if data.ConfirmLabel == "" {
		data.ConfirmLabel = "Șterge"
	}
	h.render(w, r, "confirm", templates.PageData{
		Title:     data.Title,
		ActiveNav: nav,
		Data:      data,
	})
}
