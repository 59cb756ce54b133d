package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
	"github.com/TheDeveloper404/ConstructionIQ/internal/auth"
	"github.com/TheDeveloper404/ConstructionIQ/internal/demo"
	"github.com/TheDeveloper404/ConstructionIQ/internal/middleware"
	"github.com/TheDeveloper404/ConstructionIQ/internal/templates"
	"github.com/TheDeveloper404/ConstructionIQ/web"
)

const (
	supplierID = "3f2b8a7e-1c4d-4e5f-9a6b-7c8d9e0f1a2b"
	rfqID      = "8d1e2f3a-4b5c-4d6e-8f7a-9b0c1d2e3f4a"
	quoteA     = "a1a1a1a1-b2b2-4c3c-8d4d-e5e5e5e5e5e5"
	quoteB     = "b2b2b2b2-c3c3-4d4d-9e5e-f6f6f6f6f6f6"
)

type memStore struct {
	mu      sync.Mutex
	tokens  map[string]string
	deleted []string
}

func (m *memStore) Create(_ context.Context, token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens["new"] = token
	return "new", nil
}

func (m *memStore) Lookup(_ context.Context, value string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.tokens[value]
	if !ok {
		return "", auth.ErrNoSession
	}
	return token, nil
}

func (m *memStore) Delete(_ context.Context, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, value)
	delete(m.tokens, value)
	return nil
}

// backend is a fake ConstructIQ API that records every request it sees.
type backend struct {
	mu       sync.Mutex
	requests []string
	server   *httptest.Server
}

func newBackend(t *testing.T, routes map[string]http.HandlerFunc) *backend {
	t.Helper()
	b := &backend{}
	mux := http.NewServeMux()
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}
	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, r.Method+" "+r.URL.Path)
		b.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.server.Close)
	return b
}

func (b *backend) seen(request string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, r := range b.requests {
		if r == request {
			return true
		}
	}
	return false
}

func (b *backend) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respond(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, v)
	}
}

func onePage[T any](items []T, total, totalPages int) api.Page[T] {
	return api.Page[T]{Items: items, Total: total, Page: 1, PageSize: 10, TotalPages: totalPages}
}

func signToken(t *testing.T, role string) string {
	t.Helper()
	claims := auth.Claims{
		OrgID: "org-1",
		Role:  role,
		Email: "ana@example.ro",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test"))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return token
}

type testApp struct {
	router  *chi.Mux
	backend *backend
	store   *memStore
}

func newTestApp(t *testing.T, routes map[string]http.HandlerFunc) *testApp {
	t.Helper()
	return newTestAppAs(t, "member", nil, routes)
}

func newTestAppAs(t *testing.T, role string, dp *demo.Provider, routes map[string]http.HandlerFunc) *testApp {
	t.Helper()
	be := newBackend(t, routes)

	tmpl, err := templates.New(web.TemplatesFS)
	if err != nil {
		t.Fatalf("templates.New() error = %v", err)
	}
	store := &memStore{tokens: map[string]string{"v": signToken(t, role)}}
	h := New(api.New(be.server.URL), store, tmpl, Options{BaseURL: "http://localhost:8080", PageSize: 10, Demo: dp})

	r := chi.NewRouter()
	h.Routes(r)
	return &testApp{router: r, backend: be, store: store}
}

func (a *testApp) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "v"})

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, wantPrefix string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, wantPrefix) {
		t.Errorf("Location = %q, want prefix %q", loc, wantPrefix)
	}
}

func TestSupplierDelete_Confirmation(t *testing.T) {
	tests := []struct {
		name       string
		form       url.Values
		wantPrefix string
		wantDelete bool
	}{
		{"declined", url.Values{}, "/suppliers/" + supplierID, false},
		{"wrong value", url.Values{"confirm": {"no"}}, "/suppliers/" + supplierID, false},
		{"confirmed", url.Values{"confirm": {"yes"}}, "/suppliers?success=", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, map[string]http.HandlerFunc{
				"DELETE /api/suppliers/{id}": func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusNoContent)
				},
			})

			rec := app.do(http.MethodPost, "/suppliers/"+supplierID+"/delete", tt.form)

			assertRedirect(t, rec, tt.wantPrefix)
			if got := app.backend.seen("DELETE /api/suppliers/" + supplierID); got != tt.wantDelete {
				t.Errorf("DELETE sent = %v, want %v", got, tt.wantDelete)
			}
		})
	}
}

func TestRFQSend(t *testing.T) {
	tests := []struct {
		name       string
		rfq        api.RFQ
		wantPrefix string
		wantSend   bool
	}{
		{
			name:       "no suppliers",
			rfq:        api.RFQ{ID: rfqID, Title: "Oțel", Status: "draft", SupplierIDs: []string{}},
			wantPrefix: "/rfqs/" + rfqID + "?error=",
		},
		{
			name:       "already sent",
			rfq:        api.RFQ{ID: rfqID, Title: "Oțel", Status: "sent", SupplierIDs: []string{supplierID}},
			wantPrefix: "/rfqs/" + rfqID + "?error=",
		},
		{
			name:       "draft with suppliers",
			rfq:        api.RFQ{ID: rfqID, Title: "Oțel", Status: "draft", SupplierIDs: []string{supplierID}},
			wantPrefix: "/rfqs/" + rfqID + "?success=",
			wantSend:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, map[string]http.HandlerFunc{
				"GET /api/rfqs/{id}":       respond(http.StatusOK, tt.rfq),
				"POST /api/rfqs/{id}/send": respond(http.StatusOK, api.Ack{Message: "sent"}),
			})

			rec := app.do(http.MethodPost, "/rfqs/"+rfqID+"/send", url.Values{"confirm": {"yes"}})

			assertRedirect(t, rec, tt.wantPrefix)
			if got := app.backend.seen("POST /api/rfqs/" + rfqID + "/send"); got != tt.wantSend {
				t.Errorf("send request = %v, want %v", got, tt.wantSend)
			}
		})
	}
}

func TestRFQSend_Declined(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(http.MethodPost, "/rfqs/"+rfqID+"/send", url.Values{})

	assertRedirect(t, rec, "/rfqs/"+rfqID)
	if n := app.backend.count(); n != 0 {
		t.Errorf("backend requests = %d, want 0", n)
	}
}

func TestRFQClose(t *testing.T) {
	tests := []struct {
		status     string
		wantPrefix string
		wantUpdate bool
	}{
		{"draft", "/rfqs/" + rfqID + "?error=", false},
		{"closed", "/rfqs/" + rfqID + "?error=", false},
		{"sent", "/rfqs/" + rfqID + "?success=", true},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			var body map[string]string
			app := newTestApp(t, map[string]http.HandlerFunc{
				"GET /api/rfqs/{id}": respond(http.StatusOK, api.RFQ{ID: rfqID, Status: tt.status, SupplierIDs: []string{}}),
				"PUT /api/rfqs/{id}": func(w http.ResponseWriter, r *http.Request) {
					json.NewDecoder(r.Body).Decode(&body)
					writeJSON(w, http.StatusOK, api.RFQ{ID: rfqID, Status: body["status"]})
				},
			})

			// A posted status is ignored; closing is the only move.
			rec := app.do(http.MethodPost, "/rfqs/"+rfqID+"/close", url.Values{"status": {"draft"}})

			assertRedirect(t, rec, tt.wantPrefix)
			if got := app.backend.seen("PUT /api/rfqs/" + rfqID); got != tt.wantUpdate {
				t.Fatalf("PUT sent = %v, want %v", got, tt.wantUpdate)
			}
			if tt.wantUpdate && body["status"] != "closed" {
				t.Errorf("PUT status = %q, want closed", body["status"])
			}
		})
	}
}

func TestRFQDetail_NoStatusSelector(t *testing.T) {
	app := newTestApp(t, map[string]http.HandlerFunc{
		"GET /api/rfqs/{id}":      respond(http.StatusOK, api.RFQ{ID: rfqID, Title: "Oțel", Status: "sent", SupplierIDs: []string{}}),
		"GET /api/suppliers/{id}": respond(http.StatusNotFound, map[string]string{"detail": "Not found"}),
	})

	rec := app.do(http.MethodGet, "/rfqs/"+rfqID, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	if strings.Contains(body, `name="status"`) {
		t.Error("detail page offers a status selector")
	}
	if !strings.Contains(body, `action="/rfqs/`+rfqID+`/close"`) {
		t.Error("sent RFQ does not offer close")
	}
	if strings.Contains(body, `href="/rfqs/`+rfqID+`/send"`) {
		t.Error("sent RFQ still offers send")
	}
}

func TestQuoteMapItem(t *testing.T) {
	const itemID = "c3c3c3c3-d4d4-4e5e-8f6f-a7a7a7a7a7a7"
	productID := "e5e5e5e5-f6f6-4a7a-9b8b-c9c9c9c9c9c9"

	tests := []struct {
		name       string
		item       api.QuoteItem
		wantPrefix string
		wantMap    bool
	}{
		{"unmapped", api.QuoteItem{ID: itemID}, "/quotes/" + quoteA + "?success=", true},
		{"already mapped", api.QuoteItem{ID: itemID, NormalizedProductID: &productID}, "/quotes/" + quoteA + "?error=", false},
		{"unknown item", api.QuoteItem{ID: quoteB}, "/quotes/" + quoteA + "?error=", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, map[string]http.HandlerFunc{
				"GET /api/quotes/{id}":                  respond(http.StatusOK, api.Quote{ID: quoteA, Items: []api.QuoteItem{tt.item}}),
				"POST /api/quotes/{id}/map-item/{item}": respond(http.StatusOK, api.Ack{Message: "mapped"}),
			})

			rec := app.do(http.MethodPost, "/quotes/"+quoteA+"/items/"+itemID+"/map", url.Values{"product_id": {supplierID}})

			assertRedirect(t, rec, tt.wantPrefix)
			if got := app.backend.seen("POST /api/quotes/" + quoteA + "/map-item/" + itemID); got != tt.wantMap {
				t.Errorf("map request = %v, want %v", got, tt.wantMap)
			}
		})
	}
}

func TestQuoteCreate_Recalc(t *testing.T) {
	app := newTestApp(t, map[string]http.HandlerFunc{
		"GET /api/suppliers":        respond(http.StatusOK, onePage([]api.Supplier{{ID: supplierID, Name: "Dedeman"}}, 1, 1)),
		"GET /api/catalog/products": respond(http.StatusOK, onePage([]api.Product{}, 0, 0)),
		"GET /api/rfqs":             respond(http.StatusOK, onePage([]api.RFQ{}, 0, 0)),
	})

	// Enter in a row submits the form's first button, which carries only the action.
	form := url.Values{
		"action":             {"recalc"},
		"supplier_id":        {supplierID},
		"currency":           {"RON"},
		"item_raw_line_text": {"Ciment 40kg", "Oțel beton"},
		"item_qty":           {"2", "3"},
		"item_unit_price":    {"10.5", "4"},
		"item_uom":           {"sac", "kg"},
	}
	rec := app.do(http.MethodPost, "/quotes/new", form)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	if n := strings.Count(body, `name="item_raw_line_text"`); n != 2 {
		t.Errorf("rendered rows = %d, want 2", n)
	}
	for _, want := range []string{"21.00 RON", "12.00 RON", "33.00 RON"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing total %s", want)
		}
	}
	if app.backend.seen("POST /api/quotes") {
		t.Error("expected no create request")
	}

	formStart := strings.Index(body, `action="/quotes/new"`)
	firstSubmit := strings.Index(body[formStart:], `type="submit"`)
	if !strings.HasPrefix(body[formStart+firstSubmit:], `type="submit" name="action" value="recalc"`) {
		t.Error("first submit button of the form is not recalc")
	}
}

func TestDemoReset_AdminOnly(t *testing.T) {
	tests := []struct {
		role      string
		wantCode  int
		wantReset bool
	}{
		{"member", http.StatusForbidden, false},
		{"admin", http.StatusSeeOther, true},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			app := newTestAppAs(t, tt.role, demo.Static(demo.Status{Enabled: true}), map[string]http.HandlerFunc{
				"POST /api/demo/reset": respond(http.StatusOK, api.Ack{Message: "reset"}),
				"GET /api/suppliers":   respond(http.StatusOK, onePage([]api.Supplier{}, 0, 0)),
			})

			rec := app.do(http.MethodPost, "/demo/reset", url.Values{"confirm": {"yes"}})

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if got := app.backend.seen("POST /api/demo/reset"); got != tt.wantReset {
				t.Errorf("reset request = %v, want %v", got, tt.wantReset)
			}

			page := app.do(http.MethodGet, "/suppliers", nil)
			if got := strings.Contains(page.Body.String(), `href="/demo/reset"`); got != tt.wantReset {
				t.Errorf("reset link shown = %v, want %v", got, tt.wantReset)
			}
		})
	}
}

func TestRFQDetail_InvitedSuppliers(t *testing.T) {
	const gone = "9e9e9e9e-a0a0-4b1b-8c2c-d3d3d3d3d3d3"
	app := newTestApp(t, map[string]http.HandlerFunc{
		"GET /api/rfqs/{id}": respond(http.StatusOK, api.RFQ{ID: rfqID, Title: "Oțel", Status: "draft", SupplierIDs: []string{supplierID, gone}}),
		"GET /api/suppliers/{id}": func(w http.ResponseWriter, r *http.Request) {
			if r.PathValue("id") != supplierID {
				writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Supplier not found"})
				return
			}
			writeJSON(w, http.StatusOK, api.Supplier{ID: supplierID, Name: "Dedeman", ContactEmail: "oferte@dedeman.ro"})
		},
	})

	rec := app.do(http.MethodGet, "/rfqs/"+rfqID, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "Dedeman") {
		t.Error("expected invited supplier in page")
	}
	if app.backend.seen("GET /api/suppliers") {
		t.Error("detail page listed every supplier")
	}
	if !app.backend.seen("GET /api/suppliers/" + gone) {
		t.Error("expected a lookup per invited supplier")
	}
}

func TestUnauthorized_RedirectsToLogin(t *testing.T) {
	app := newTestApp(t, map[string]http.HandlerFunc{
		"GET /api/suppliers": respond(http.StatusUnauthorized, map[string]string{"detail": "Token expired"}),
	})

	rec := app.do(http.MethodGet, "/suppliers", nil)

	assertRedirect(t, rec, "/login?error=")
	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected session cookie to be cleared")
	}
	if len(app.store.deleted) != 1 || app.store.deleted[0] != "v" {
		t.Errorf("deleted sessions = %v, want [v]", app.store.deleted)
	}
}

func TestSupplierDetail_Missing(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		wantBackend bool
	}{
		{"not found", supplierID, true},
		{"malformed id", "not-a-uuid", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, map[string]http.HandlerFunc{
				"GET /api/suppliers/{id}": respond(http.StatusNotFound, map[string]string{"detail": "Supplier not found"}),
			})

			rec := app.do(http.MethodGet, "/suppliers/"+tt.id, nil)

			assertRedirect(t, rec, "/suppliers?error=")
			if got := app.backend.count() > 0; got != tt.wantBackend {
				t.Errorf("backend called = %v, want %v", got, tt.wantBackend)
			}
		})
	}
}

func TestSupplierList_FilterLinks(t *testing.T) {
	var gotSearch string
	app := newTestApp(t, map[string]http.HandlerFunc{
		"GET /api/suppliers": func(w http.ResponseWriter, r *http.Request) {
			gotSearch = r.URL.Query().Get("search")
			writeJSON(w, http.StatusOK, onePage([]api.Supplier{{ID: supplierID, Name: "Dedeman"}}, 25, 3))
		},
	})

	rec := app.do(http.MethodGet, "/suppliers?search=ciment", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotSearch != "ciment" {
		t.Errorf("search = %q, want %q", gotSearch, "ciment")
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Dedeman") {
		t.Error("expected supplier name in page")
	}
	if !strings.Contains(body, "/suppliers?page=2&amp;search=ciment") {
		t.Error("expected page links to keep the search filter")
	}
}

func TestQuoteCompare(t *testing.T) {
	compared := map[string]any{
		"quotes": []api.Quote{
			{ID: quoteA, SupplierName: "Dedeman", Currency: "RON", Items: []api.QuoteItem{{RawLineText: "Ciment", Qty: 10, UnitPrice: 30}}},
			{ID: quoteB, SupplierName: "Hornbach", Currency: "RON", Items: []api.QuoteItem{{RawLineText: "Ciment", Qty: 10, UnitPrice: 28}}},
		},
	}

	t.Run("fewer than two", func(t *testing.T) {
		app := newTestApp(t, map[string]http.HandlerFunc{
			"GET /api/quotes/compare": respond(http.StatusOK, compared),
		})

		rec := app.do(http.MethodGet, "/quotes/compare?quote_ids="+quoteA, nil)

		assertRedirect(t, rec, "/quotes?error=")
		if n := app.backend.count(); n != 0 {
			t.Errorf("backend requests = %d, want 0", n)
		}
	})

	t.Run("two quotes", func(t *testing.T) {
		var gotIDs string
		app := newTestApp(t, map[string]http.HandlerFunc{
			"GET /api/quotes/compare": func(w http.ResponseWriter, r *http.Request) {
				gotIDs = r.URL.Query().Get("quote_ids")
				writeJSON(w, http.StatusOK, compared)
			},
		})

		rec := app.do(http.MethodGet, "/quotes/compare?quote_ids="+quoteA+"&quote_ids="+quoteB, nil)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if gotIDs != quoteA+","+quoteB {
			t.Errorf("quote_ids = %q, want %q", gotIDs, quoteA+","+quoteB)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "Hornbach") || !strings.Contains(body, "280.00 RON") {
			t.Error("expected both quotes with totals in page")
		}
	})
}

func TestProductCreate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		var created api.Product
		app := newTestApp(t, map[string]http.HandlerFunc{
			"POST /api/catalog/products": func(w http.ResponseWriter, r *http.Request) {
				json.NewDecoder(r.Body).Decode(&created)
				created.ID = "c0c0c0c0-d1d1-4e2e-8f3f-a4a4a4a4a4a4"
				writeJSON(w, http.StatusCreated, created)
			},
		})

		form := url.Values{
			"canonical_name": {"  Ciment Portland 40kg "},
			"category":       {"Cimenturi"},
			"base_uom":       {"sac"},
		}
		rec := app.do(http.MethodPost, "/catalog", form)

		assertRedirect(t, rec, "/catalog?success=")
		if created.CanonicalName != "Ciment Portland 40kg" {
			t.Errorf("CanonicalName = %q, want %q", created.CanonicalName, "Ciment Portland 40kg")
		}
		if created.BaseUOM != "sac" {
			t.Errorf("BaseUOM = %q, want %q", created.BaseUOM, "sac")
		}
	})

	t.Run("missing name", func(t *testing.T) {
		app := newTestApp(t, map[string]http.HandlerFunc{
			"GET /api/catalog/products":   respond(http.StatusOK, onePage([]api.Product{}, 0, 0)),
			"GET /api/catalog/categories": respond(http.StatusOK, map[string][]string{"categories": {"Cimenturi"}}),
		})

		rec := app.do(http.MethodPost, "/catalog", url.Values{"canonical_name": {" "}})

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if !strings.Contains(rec.Body.String(), "Introduceți numele produsului") {
			t.Error("expected validation message in page")
		}
		if app.backend.seen("POST /api/catalog/products") {
			t.Error("expected no create request")
		}
	})
}

func TestLogin(t *testing.T) {
	token := signToken(t, "member")
	app := newTestApp(t, map[string]http.HandlerFunc{
		"POST /api/auth/login": func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["password"] != "secret" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid credentials"})
				return
			}
			writeJSON(w, http.StatusOK, api.LoginResult{AccessToken: token, TokenType: "bearer"})
		},
	})

	t.Run("valid credentials", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/login", url.Values{"email": {"ana@example.ro"}, "password": {"secret"}})

		assertRedirect(t, rec, "/")
		if app.store.tokens["new"] != token {
			t.Error("expected token to be stored in a new session")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/login", url.Values{"email": {"ana@example.ro"}, "password": {"nope"}})

		assertRedirect(t, rec, "/login?error=")
		if loc := rec.Header().Get("Location"); !strings.Contains(loc, "Invalid+credentials") {
			t.Errorf("Location = %q, want backend message", loc)
		}
	})
}

func TestLoginPage_RendersFlash(t *testing.T) {
	app := newTestApp(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/login?error=Sesiunea+a+expirat", nil)
	rec := httptest.NewRecorder()

	app.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "Sesiunea a expirat") {
		t.Error("expected flash message in login page")
	}
}

func TestNotFound_RedirectsToDashboard(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(http.MethodGet, "/nowhere", nil)

	assertRedirect(t, rec, "/")
}
