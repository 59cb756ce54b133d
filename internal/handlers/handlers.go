// Package handlers provides HTTP handlers for the web client.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
	"github.com/TheDeveloper404/ConstructionIQ/internal/auth"
	"github.com/TheDeveloper404/ConstructionIQ/internal/demo"
	"github.com/TheDeveloper404/ConstructionIQ/internal/listing"
	"github.com/TheDeveloper404/ConstructionIQ/internal/metrics"
	"github.com/TheDeveloper404/ConstructionIQ/internal/middleware"
	"github.com/TheDeveloper404/ConstructionIQ/internal/templates"
)

const sessionExpiredMessage = "Sesiunea a expirat. Autentificați-vă din nou."

// Options carries the optional collaborators of Handlers.
type Options struct {
	// BaseURL is the public URL of the web client, used in QR codes.
	BaseURL  string
	PageSize int
	Demo     *demo.Provider
	Metrics  *metrics.Metrics
}

// Handlers provides HTTP handlers for the web client.
type Handlers struct {
	api       *api.Client
	sessions  auth.Store
	templates *templates.Engine
	demo      *demo.Provider
	metrics   *metrics.Metrics
	baseURL   string
	pageSize  int
}

// New creates a new handlers instance.
func New(client *api.Client, sessions auth.Store, tmpl *templates.Engine, opts Options) *Handlers {
	if opts.PageSize <= 0 {
		opts.PageSize = listing.DefaultPageSize
	}
	return &Handlers{
		api:       client,
		sessions:  sessions,
		templates: tmpl,
		demo:      opts.Demo,
		metrics:   opts.Metrics,
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		pageSize:  opts.PageSize,
	}
}

// client returns an API client authenticated as the request's session.
func (h *Handlers) client(r *http.Request) *api.Client {
	if s := middleware.GetSession(r.Context()); s != nil {
		return h.api.WithTokens(s)
	}
	return h.api
}

// render writes a page. The flash defaults to the one carried in the query
// string.
func (h *Handlers) render(w http.ResponseWriter, r *http.Request, name string, page templates.PageData) {
	page.User = middleware.GetUser(r.Context())
	page.Demo = h.demo.Status()
	if page.Flash == nil {
		page.Flash = templates.FlashFromQuery(r.URL.Query())
	} else {
		h.notified(page.Flash.Type)
	}

	if err := h.templates.Render(w, name, page); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *Handlers) notified(kind string) {
	if h.metrics != nil {
		h.metrics.RecordNotification(kind)
	}
}

// redirect sends the user to path with a flash notification.
func (h *Handlers) redirect(w http.ResponseWriter, r *http.Request, path, kind, message string) {
	if message != "" {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		path += sep + kind + "=" + url.QueryEscape(message)
		h.notified(kind)
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func (h *Handlers) success(w http.ResponseWriter, r *http.Request, path, message string) {
	h.redirect(w, r, path, "success", message)
}

// abort handles the errors that end a request regardless of the page: a
// rejected token sends the user to the login page and a canceled request
// writes nothing. It reports whether the response is done.
func (h *Handlers) abort(w http.ResponseWriter, r *http.Request, err error) bool {
	switch {
	case api.IsUnauthorized(err):
		middleware.ClearSessionCookie(w, r)
		h.redirect(w, r, "/login", "error", sessionExpiredMessage)
		return true
	case api.IsCanceled(err), errors.Is(err, listing.ErrSuperseded):
		return true
	}
	return false
}

// fail reports a failed mutation as one notification on path.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error, fallback, path string) {
	if h.abort(w, r, err) {
		return
	}
	slog.Error(fallback, "error", err, "path", r.URL.Path)
	h.redirect(w, r, path, "error", api.Message(err, fallback))
}

// loadError turns a failed page load into an error flash, or reports nil
// when the response was already handled.
func (h *Handlers) loadError(w http.ResponseWriter, r *http.Request, err error, fallback string) *templates.Flash {
	if h.abort(w, r, err) {
		return nil
	}
	slog.Error(fallback, "error", err, "path", r.URL.Path)
	return &templates.Flash{Type: "error", Message: api.Message(err, fallback)}
}

// idParam returns the {id} URL parameter. Malformed ids are treated as
// missing entities and send the user back to listPath.
func (h *Handlers) idParam(w http.ResponseWriter, r *http.Request, name, listPath, notFound string) (string, bool) {
	id := chi.URLParam(r, name)
	if !api.IsValidID(id) {
		h.redirect(w, r, listPath, "error", notFound)
		return "", false
	}
	return id, true
}

// detailFailed handles a failed detail load: every failure returns to the
// list page with one notification.
func (h *Handlers) detailFailed(w http.ResponseWriter, r *http.Request, err error, fallback, notFound, listPath string) {
	if h.abort(w, r, err) {
		return
	}
	if api.IsNotFound(err) {
		h.redirect(w, r, listPath, "error", notFound)
		return
	}
	slog.Error(fallback, "error", err, "path", r.URL.Path)
	h.redirect(w, r, listPath, "error", api.Message(err, fallback))
}

// NotFound sends unknown paths to the dashboard.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
