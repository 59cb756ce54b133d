package handlers

import (
	"github.com/go-chi/chi/v5"

	"github.com/TheDeveloper404/ConstructionIQ/internal/middleware"
)

// Routes registers every page on r. Everything except the login pages
// requires a session.
func (h *Handlers) Routes(r chi.Router) {
	r.Get("/login", h.LoginPage)
	r.Post("/login", h.Login)
	r.Get("/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(h.sessions))

		r.Get("/", h.Dashboard)

		r.Get("/suppliers", h.SupplierList)
		r.Get("/suppliers/new", h.SupplierNew)
		r.Post("/suppliers/new", h.SupplierCreate)
		r.Get("/suppliers/{id}", h.SupplierDetail)
		r.Post("/suppliers/{id}", h.SupplierUpdate)
		r.Get("/suppliers/{id}/delete", h.SupplierDeleteConfirm)
		r.Post("/suppliers/{id}/delete", h.SupplierDelete)

		r.Get("/projects", h.ProjectList)
		r.Get("/projects/new", h.ProjectNew)
		r.Post("/projects/new", h.ProjectCreate)
		r.Get("/projects/{id}", h.ProjectDetail)
		r.Post("/projects/{id}", h.ProjectUpdate)
		r.Get("/projects/{id}/delete", h.ProjectDeleteConfirm)
		r.Post("/projects/{id}/delete", h.ProjectDelete)

		r.Get("/rfqs", h.RFQList)
		r.Get("/rfqs/new", h.RFQNew)
		r.Post("/rfqs/new", h.RFQCreate)
		r.Get("/rfqs/{id}", h.RFQDetail)
		r.Get("/rfqs/{id}/send", h.RFQSendConfirm)
		r.Post("/rfqs/{id}/send", h.RFQSend)
		r.Post("/rfqs/{id}/close", h.RFQClose)
		r.Get("/rfqs/{id}/delete", h.RFQDeleteConfirm)
		r.Post("/rfqs/{id}/delete", h.RFQDelete)
		r.Get("/rfqs/{id}/pdf", h.RFQPDF)

		r.Get("/quotes", h.QuoteList)
		r.Get("/quotes/xlsx", h.QuotesXLSX)
		r.Get("/quotes/compare", h.QuoteCompare)
		r.Get("/quotes/new", h.QuoteNew)
		r.Post("/quotes/new", h.QuoteCreate)
		r.Get("/quotes/{id}", h.QuoteDetail)
		r.Post("/quotes/{id}/status", h.QuoteStatus)
		r.Post("/quotes/{id}/items/{itemID}/map", h.QuoteMapItem)
		r.Get("/quotes/{id}/delete", h.QuoteDeleteConfirm)
		r.Post("/quotes/{id}/delete", h.QuoteDelete)
		r.Get("/quotes/{id}/xlsx", h.QuoteXLSX)

		r.Get("/catalog", h.Catalog)
		r.Post("/catalog", h.ProductCreate)
		r.Get("/catalog/{id}/delete", h.ProductDeleteConfirm)
		r.Post("/catalog/{id}/delete", h.ProductDelete)

		r.Get("/price-history", h.PriceHistory)
		r.Get("/price-history/xlsx", h.PriceHistoryXLSX)

		r.Get("/alerts", h.Alerts)
		r.Post("/alerts/rules", h.AlertRuleCreate)
		r.Post("/alerts/rules/{id}/toggle", h.AlertRuleToggle)
		r.Get("/alerts/rules/{id}/delete", h.AlertRuleDeleteConfirm)
		r.Post("/alerts/rules/{id}/delete", h.AlertRuleDelete)
		r.Post("/alerts/events/{id}/ack", h.AlertEventAck)

		r.With(middleware.AdminMiddleware).Get("/demo/reset", h.DemoResetConfirm)
		r.With(middleware.AdminMiddleware).Post("/demo/reset", h.DemoReset)
	})

	r.NotFound(h.NotFound)
}
