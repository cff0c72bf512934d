package middleware

import (
	"net/http"

	"github.com/angelmondragon/phonedex-backend/api/responses"
)

// ErrorDetail lets 5xx responses carry the raw error text when enabled.
func ErrorDetail(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(responses.WithInternalDetails(r.Context(), true)))
		})
	}
}
