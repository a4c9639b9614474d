package middleware

import (
	"net/http"
	"strings"
)

const contextIDHeader = "X-GS-Context"

// ContextID stamps every response with the id of the storefront context serving it.
func ContextID(id string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id != "" {
				w.Header().Set(contextIDHeader, id)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ContextIDFromRequest returns the calling context id a client sent, if any.
func ContextIDFromRequest(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(contextIDHeader))
}
