package webapp

import (
	"net/http"

	"github.com/oneworldlabs/oneworld/internal/transport/http/handler/shared"
)

type verifyRequest struct {
	InitData string `json:"init_data"`
}

// VerifyInit handles POST /webapp/verify. A valid initData payload gets
// a session token for the lobby API and the WebSocket; an invalid one
// gets {"ok": false} so the page can fall back to spectator mode.
func (h *Handlers) VerifyInit(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteJSONError(w, "bad request", http.StatusBadRequest)
		return
	}

	user, err := h.Verifier.Verify(req.InitData)
	if err != nil {
		shared.WriteJSON(w, map[string]any{"ok": false}, http.StatusOK)
		return
	}

	token, err := h.Sessions.Issue(user.ID)
	if err != nil {
		h.Logger.Error("session issue failed", "user_id", user.ID, "error", err)
		shared.WriteJSONError(w, "internal error", http.StatusInternalServerError)
		return
	}

	shared.WriteJSON(w, map[string]any{
		"ok":    true,
		"token": token,
		"user":  user,
	}, http.StatusOK)
}
