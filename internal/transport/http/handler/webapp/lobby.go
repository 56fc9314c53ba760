package webapp

import (
	"errors"
	"net/http"

	"github.com/oneworldlabs/oneworld/internal/lobby"
	"github.com/oneworldlabs/oneworld/internal/transport/http/handler/shared"
	"github.com/oneworldlabs/oneworld/internal/transport/http/middleware"
)

type createLobbyRequest struct {
	Game       string `json:"game"`
	MaxPlayers int    `json:"max_players"`
}

type joinLobbyRequest struct {
	LobbyID string `json:"lobby_id"`
}

// CreateLobby handles POST /webapp/lobby/create. The host is the
// session user.
func (h *Handlers) CreateLobby(w http.ResponseWriter, r *http.Request) {
	var req createLobbyRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteJSONError(w, "bad request", http.StatusBadRequest)
		return
	}

	l := h.Lobbies.Create(middleware.GetUserID(r.Context()), req.Game, req.MaxPlayers)
	shared.WriteJSON(w, map[string]any{
		"ok":       true,
		"lobby_id": l.ID,
	}, http.StatusOK)
}

// JoinLobby handles POST /webapp/lobby/join. Rejoining a lobby the user
// is already seated in succeeds without a second seat.
func (h *Handlers) JoinLobby(w http.ResponseWriter, r *http.Request) {
	var req joinLobbyRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteJSONError(w, "bad request", http.StatusBadRequest)
		return
	}

	l, err := h.Lobbies.Join(req.LobbyID, middleware.GetUserID(r.Context()))
	switch {
	case errors.Is(err, lobby.ErrNotFound):
		shared.WriteJSONError(w, "lobby not found", http.StatusNotFound)
		return
	case errors.Is(err, lobby.ErrFull):
		shared.WriteJSONError(w, "lobby full", http.StatusBadRequest)
		return
	case err != nil:
		shared.WriteJSONError(w, "internal error", http.StatusInternalServerError)
		return
	}

	shared.WriteJSON(w, map[string]any{"ok": true, "lobby": l}, http.StatusOK)
}

// LobbyStatus handles GET /webapp/lobby/{id}.
func (h *Handlers) LobbyStatus(w http.ResponseWriter, r *http.Request) {
	l, err := h.Lobbies.Get(r.PathValue("id"))
	if err != nil {
		shared.WriteJSONError(w, "lobby not found", http.StatusNotFound)
		return
	}
	shared.WriteJSON(w, map[string]any{"ok": true, "lobby": l}, http.StatusOK)
}

// StartLobby handles POST /webapp/lobby/{id}/start. Starting is a
// one-way transition; a second start reports the lobby as already
// started.
func (h *Handlers) StartLobby(w http.ResponseWriter, r *http.Request) {
	l, err := h.Lobbies.Start(r.PathValue("id"))
	switch {
	case errors.Is(err, lobby.ErrNotFound):
		shared.WriteJSONError(w, "lobby not found", http.StatusNotFound)
		return
	case errors.Is(err, lobby.ErrStarted):
		shared.WriteJSONError(w, "already started", http.StatusBadRequest)
		return
	case err != nil:
		shared.WriteJSONError(w, "internal error", http.StatusInternalServerError)
		return
	}

	shared.WriteJSON(w, map[string]any{"ok": true, "lobby": l}, http.StatusOK)
}
