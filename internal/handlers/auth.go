package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
	"github.com/TheDeveloper404/ConstructionIQ/internal/middleware"
	"github.com/TheDeveloper404/ConstructionIQ/internal/templates"
)

// LoginPage renders the login page.
func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if _, err := h.sessions.Lookup(r.Context(), cookie.Value); err == nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
	}

	h.render(w, r, "login", templates.PageData{
		Title: "Autentificare",
		Data:  map[string]string{"Email": r.URL.Query().Get("email")},
	})
}

// Login handles the login form submission.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "/login", "error", "Date de formular invalide")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		h.redirect(w, r, "/login", "error", "Introduceți emailul și parola")
		return
	}

	result, err := h.api.Login(r.Context(), email, password)
	if err != nil {
		if api.IsCanceled(err) {
			return
		}
		slog.Info("failed login attempt", "email", email, "error", err)
		h.redirect(w, r, "/login", "error", api.Message(err, "Email sau parolă incorectă"))
		return
	}

	value, err := h.sessions.Create(r.Context(), result.AccessToken)
	if err != nil {
		slog.Error("failed to create session", "error", err, "user_id", result.User.ID)
		h.redirect(w, r, "/login", "error", "Eroare la crearea sesiunii")
		return
	}

	middleware.SetSessionCookie(w, r, value)
	slog.Info("user logged in", "user_id", result.User.ID, "email", result.User.Email)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles user logout.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err == nil && cookie.Value != "" {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			slog.Error("failed to delete session", "error", err)
		}
	}

	middleware.ClearSessionCookie(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
