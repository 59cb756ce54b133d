package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
	"github.com/TheDeveloper404/ConstructionIQ/internal/forms"
	"github.com/TheDeveloper404/ConstructionIQ/internal/listing"
	"github.com/TheDeveloper404/ConstructionIQ/internal/templates"
	"github.com/TheDeveloper404/ConstructionIQ/internal/workflow"
)

// AlertsData contains data for the alerts template.
type AlertsData struct {
	Rules     []api.AlertRule
	Events    listing.State[api.AlertEvent]
	Pager     Pager
	Status    string
	Statuses  []workflow.Option
	Form      *forms.AlertRuleForm
	RuleTypes []workflow.Option
}

// Alerts renders alert rules and the paginated event feed.
func (h *Handlers) Alerts(w http.ResponseWriter, r *http.Request) {
	h.renderAlerts(w, r, forms.NewAlertRuleForm(), nil)
}

func (h *Handlers) renderAlerts(w http.ResponseWriter, r *http.Request, form *forms.AlertRuleForm, flash *templates.Flash) {
	page := templates.PageData{Title: "Alerte", ActiveNav: "alerts", Flash: flash}
	client := h.client(r)

	var rules []api.AlertRule
	var events listing.State[api.AlertEvent]
	err := listing.FanOut(r.Context(),
		func(ctx context.Context) (err error) {
			rules, err = client.ListAlertRules(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			events, err = openList(ctx, r, client.ListAlertEvents, h.pageSize, "status")
			return err
		},
	)
	if err != nil {
		if page.Flash = h.loadError(w, r, err, "Eroare la încărcarea alertelor"); page.Flash == nil {
			return
		}
		if events.Items == nil {
			events = listing.State[api.AlertEvent]{Items: []api.AlertEvent{}, Page: 1, PageSize: h.pageSize}
		}
	}

	page.Data = AlertsData{
		Rules:     rules,
		Events:    events,
		Pager:     newPager("/alerts", events),
		Status:    events.Filters["status"],
		Statuses:  workflow.EventStatuses,
		Form:      form,
		RuleTypes: workflow.RuleTypes,
	}
	h.render(w, r, "alerts", page)
}

// AlertRuleCreate creates an alert rule.
func (h *Handlers) AlertRuleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "/alerts", "error", "Date de formular invalide")
		return
	}

	form := forms.ParseAlertRule(r.PostForm)
	if err := form.Validate(); err != nil {
		h.renderAlerts(w, r, form, &templates.Flash{Type: "error", Message: err.Error()})
		return
	}

	if _, err := h.client(r).CreateAlertRule(r.Context(), form.AlertRule()); err != nil {
		if h.abort(w, r, err) {
			return
		}
		h.renderAlerts(w, r, form, &templates.Flash{Type: "error", Message: api.Message(err, "Eroare la crearea regulii")})
		return
	}

	h.success(w, r, "/alerts", "Regulă creată")
}

// AlertRuleToggle activates or deactivates a rule.
func (h *Handlers) AlertRuleToggle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "/alerts", "Regula nu a fost găsită")
	if !ok {
		return
	}

	active, err := strconv.ParseBool(r.FormValue("is_active"))
	if err != nil {
		h.redirect(w, r, "/alerts", "error", "Valoare invalidă")
		return
	}

	rule, err := h.client(r).UpdateAlertRule(r.Context(), id, map[string]any{"is_active": active})
	if err != nil {
		h.fail(w, r, err, "Eroare la actualizarea regulii", "/alerts")
		return
	}

	msg := "Regulă dezactivată"
	if rule.IsActive {
		msg = "Regulă activată"
	}
	h.success(w, r, "/alerts", msg)
}

// AlertRuleDeleteConfirm asks before deleting a rule.
func (h *Handlers) AlertRuleDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "/alerts", "Regula nu a fost găsită")
	if !ok {
		return
	}
	h.confirm(w, r, "alerts", ConfirmData{
		Title:     "Ștergere regulă",
		Message:   "Ștergeți această regulă?",
		Action:    "/alerts/rules/" + id + "/delete",
		CancelURL: "/alerts",
	})
}

// AlertRuleDelete deletes a rule once confirmed.
func (h *Handlers) AlertRuleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "/alerts", "Regula nu a fost găsită")
	if !ok {
		return
	}
	if !confirmed(r) {
		http.Redirect(w, r, "/alerts", http.StatusSeeOther)
		return
	}

	if err := h.client(r).DeleteAlertRule(r.Context(), id); err != nil {
		h.fail(w, r, err, "Eroare la ștergerea regulii", "/alerts")
		return
	}

	h.success(w, r, "/alerts", "Regulă ștearsă")
}

// AlertEventAck acknowledges a triggered alert.
func (h *Handlers) AlertEventAck(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "/alerts", "Alerta nu a fost găsită")
	if !ok {
		return
	}
	back := "/alerts"
	if status := r.FormValue("status_filter"); status != "" {
		back += "?status=" + url.QueryEscape(status)
	}

	if err := h.client(r).UpdateAlertEventStatus(r.Context(), id, workflow.EventAck); err != nil {
		h.fail(w, r, err, "Eroare la confirmarea alertei", back)
		return
	}

	h.success(w, r, back, "Alertă confirmată")
}
