package handlers

import (
	"log/slog"
	"net/http"
)

// DemoResetConfirm asks before wiping the demo organisation.
func (h *Handlers) DemoResetConfirm(w http.ResponseWriter, r *http.Request) {
	if !h.demo.Enabled() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.confirm(w, r, "dashboard", ConfirmData{
		Title:        "Resetare date demo",
		Message:      "Resetați toate datele demo? Modificările făcute vor fi pierdute.",
		Action:       "/demo/reset",
		ConfirmLabel: "Resetează",
		CancelURL:    "/",
	})
}

// DemoReset reseeds the demo organisation.
func (h *Handlers) DemoReset(w http.ResponseWriter, r *http.Request) {
	if !h.demo.Enabled() || !confirmed(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if _, err := h.client(r).ResetDemo(r.Context()); err != nil {
		h.fail(w, r, err, "Eroare la resetarea datelor demo", "/")
		return
	}

	slog.Info("demo data reset")
	h.success(w, r, "/", "Datele demo au fost resetate cu succes")
}
