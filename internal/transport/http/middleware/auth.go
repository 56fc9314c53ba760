package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/oneworldlabs/oneworld/internal/auth"
)

// UserIDKey is the context key for the authenticated Telegram user ID.
const UserIDKey contextKey = "user_id"

// GetUserID retrieves the authenticated user ID from the context.
// Returns 0 when the request carried no valid session.
func GetUserID(ctx context.Context) int64 {
	if id, ok := ctx.Value(UserIDKey).(int64); ok {
		return id
	}
	return 0
}

// SessionAuth validates the webapp session token and stores the user ID
// in the request context. The token comes from the Authorization header
// or, for WebSocket upgrades where headers are unavailable, the token
// query parameter.
func SessionAuth(sessions *auth.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				token = r.URL.Query().Get("token")
			}
			if token == "" {
				writeUnauthorized(w)
				return
			}

			userID, err := sessions.Parse(token)
			if err != nil {
				writeUnauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer" header.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" || !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}

// writeUnauthorized writes a JSON 401 response.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":    false,
		"error": "unauthorized",
	})
}
