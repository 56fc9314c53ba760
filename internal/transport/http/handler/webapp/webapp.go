// Package webapp implements the game hub JSON API: balance credits,
// initData verification and the multiplayer lobby endpoints.
package webapp

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/oneworldlabs/oneworld/internal/auth"
	"github.com/oneworldlabs/oneworld/internal/lobby"
	"github.com/oneworldlabs/oneworld/internal/storage"
)

// Handlers holds the dependencies for webapp HTTP handlers.
type Handlers struct {
	Storage  storage.Storage
	Verifier *auth.Verifier
	Sessions *auth.Sessions
	Lobbies  *lobby.Manager
	Logger   *slog.Logger

	// sharedSecret authenticates server-to-server credit calls. Empty
	// disables that path; browser clients authenticate with initData.
	sharedSecret string

	upgrader websocket.Upgrader
}

// New creates a new instance of webapp handlers.
func New(store storage.Storage, verifier *auth.Verifier, sessions *auth.Sessions, lobbies *lobby.Manager, sharedSecret string, logger *slog.Logger) *Handlers {
	return &Handlers{
		Storage:      store,
		Verifier:     verifier,
		Sessions:     sessions,
		Lobbies:      lobbies,
		Logger:       logger,
		sharedSecret: sharedSecret,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The hub page runs inside Telegram webviews with varying
			// origins; the session token is the access control.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}
