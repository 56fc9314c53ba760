package webapp

import (
	"net/http"

	"github.com/oneworldlabs/oneworld/internal/transport/http/handler/shared"
	"github.com/oneworldlabs/oneworld/internal/transport/http/middleware"
)

// LobbySocket handles GET /ws/lobby/{id}. Every text frame a client
// sends is relayed to every socket in the lobby, the sender included;
// game state itself lives client-side.
func (h *Handlers) LobbySocket(w http.ResponseWriter, r *http.Request) {
	lobbyID := r.PathValue("id")

	room, err := h.Lobbies.Room(lobbyID)
	if err != nil {
		shared.WriteJSONError(w, "lobby not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.Logger.Warn("websocket upgrade failed", "lobby_id", lobbyID, "error", err)
		return
	}

	room.Attach(conn, middleware.GetUserID(r.Context()))
}
