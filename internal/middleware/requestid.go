package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
)

// ForwardRequestID copies chi's request id into the context read by the API
// client, so backend logs can be correlated with ours. It must run after
// chi's RequestID middleware.
func ForwardRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chimw.GetReqID(r.Context())
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}
		ctx := api.ContextWithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
