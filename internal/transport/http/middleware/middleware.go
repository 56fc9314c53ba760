// Package middleware wraps the HTTP routes with request IDs, logging,
// CORS and session checks.
package middleware

import "net/http"

// CORS adds Cross-Origin Resource Sharing headers for the webapp.
// Telegram renders the game hub inside an embedded webview, so the API
// must answer preflight requests.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
