// Package app wires the HTTP router and server for the webapp.
package app

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oneworldlabs/oneworld/internal/auth"
	"github.com/oneworldlabs/oneworld/internal/transport/http/handler"
	"github.com/oneworldlabs/oneworld/internal/transport/http/middleware"
	"github.com/oneworldlabs/oneworld/internal/transport/http/middleware/ratelimit"
)

// RouterOptions configures the HTTP router behavior.
type RouterOptions struct {
	Logger   *slog.Logger
	Sessions *auth.Sessions

	// CreditPerMinute rate-limits the credit and verify endpoints per
	// client IP. 0 disables the limit.
	CreditPerMinute int
}

// NewRouter creates and configures the HTTP router with all application
// routes. Returns an http.Handler with middleware applied.
func NewRouter(repo *handler.Repo, opts *RouterOptions) http.Handler {
	mux := http.NewServeMux()

	// Public routes (no auth)
	mux.HandleFunc("GET /healthz", repo.Infra.HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Game hub frontend
	mux.Handle("GET /webapp/", repo.Webapp.Hub())

	// Credit and verification, rate limited per client
	limited := ratelimit.Middleware(ratelimit.New(), opts.CreditPerMinute)
	mux.Handle("POST /webapp/credit", limited(http.HandlerFunc(repo.Webapp.Credit)))
	mux.Handle("POST /webapp/verify", limited(http.HandlerFunc(repo.Webapp.VerifyInit)))

	// Lobby API; mutating calls and the socket require a session token
	sessionAuth := middleware.SessionAuth(opts.Sessions)
	mux.Handle("POST /webapp/lobby/create", sessionAuth(http.HandlerFunc(repo.Webapp.CreateLobby)))
	mux.Handle("POST /webapp/lobby/join", sessionAuth(http.HandlerFunc(repo.Webapp.JoinLobby)))
	mux.HandleFunc("GET /webapp/lobby/{id}", repo.Webapp.LobbyStatus)
	mux.Handle("POST /webapp/lobby/{id}/start", sessionAuth(http.HandlerFunc(repo.Webapp.StartLobby)))
	mux.Handle("GET /ws/lobby/{id}", sessionAuth(http.HandlerFunc(repo.Webapp.LobbySocket)))

	// Root returns JSON status
	mux.HandleFunc("GET /", repo.Infra.RootStatus)

	// Apply middleware chain (order: outer to inner)
	var h http.Handler = mux

	if opts.Logger != nil {
		h = middleware.RequestLogger(opts.Logger)(h)
	}
	h = middleware.RequestID(h)
	h = middleware.CORS(h)

	return h
}
