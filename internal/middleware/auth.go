// Package middleware provides HTTP middleware for the web client.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
	"github.com/TheDeveloper404/ConstructionIQ/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// SessionContextKey is the context key for the request's session.
	SessionContextKey contextKey = "session"
	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "ciq_session"
)

// Session is the authenticated state of one request. It doubles as the
// api.TokenStore of the request-scoped API client.
type Session struct {
	Value  string
	Claims *auth.Claims

	mu      sync.Mutex
	token   string
	cleared bool
}

// NewSession creates a session for the access token stored behind value.
func NewSession(value, token string, claims *auth.Claims) *Session {
	return &Session{Value: value, token: token, Claims: claims}
}

// Token returns the access token until the backend rejects it.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cleared {
		return ""
	}
	return s.token
}

// Clear forgets the token. The store row is removed once the request ends.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleared = true
}

// Cleared reports whether the backend rejected the token during the request.
func (s *Session) Cleared() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cleared
}

// User returns the display identity carried by the token.
func (s *Session) User() *api.User {
	if s.Claims == nil {
		return nil
	}
	return &api.User{
		ID:    s.Claims.Subject,
		OrgID: s.Claims.OrgID,
		Role:  s.Claims.Role,
		Email: s.Claims.Email,
	}
}

// AuthMiddleware creates middleware that requires a live session. Requests
// without one are redirected to /login.
func AuthMiddleware(store auth.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			token, err := store.Lookup(r.Context(), cookie.Value)
			if err != nil {
				ClearSessionCookie(w, r)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			claims, err := auth.ParseClaims(token)
			if err != nil || claims.Expired(time.Now()) {
				forget(r.Context(), store, cookie.Value)
				ClearSessionCookie(w, r)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			session := NewSession(cookie.Value, token, claims)
			ctx := context.WithValue(r.Context(), SessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))

			if session.Cleared() {
				forget(context.WithoutCancel(r.Context()), store, cookie.Value)
			}
		})
	}
}

func forget(ctx context.Context, store auth.Store, value string) {
	if err := store.Delete(ctx, value); err != nil {
		slog.Warn("failed to delete session", "error", err)
	}
}

// AdminMiddleware creates middleware that requires the admin role.
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := GetSession(r.Context())
		if s == nil || s.Claims == nil || !s.Claims.IsAdmin() {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSession retrieves the session from the request context.
func GetSession(ctx context.Context) *Session {
	s, ok := ctx.Value(SessionContextKey).(*Session)
	if !ok {
		return nil
	}
	return s
}

// GetUser retrieves the authenticated user from the request context.
func GetUser(ctx context.Context) *api.User {
	if s := GetSession(ctx); s != nil {
		return s.User()
	}
	return nil
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, r *http.Request, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(auth.SessionDuration.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie clears the session cookie on the response.
func ClearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}
