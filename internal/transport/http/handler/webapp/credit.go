package webapp

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/oneworldlabs/oneworld/internal/metrics"
	"github.com/oneworldlabs/oneworld/internal/storage"
	"github.com/oneworldlabs/oneworld/internal/transport/http/handler/shared"
)

type creditRequest struct {
	UserID   int64  `json:"user_id"`
	Amount   int64  `json:"amount"`
	Secret   string `json:"secret,omitempty"`
	InitData string `json:"init_data,omitempty"`
}

// Credit handles POST /webapp/credit. Callers authenticate either with
// the shared secret (server-to-server) or with signed Telegram initData;
// on the initData path the credited user is the one embedded in the
// verified payload, not whatever user_id the body claims.
func (h *Handlers) Credit(w http.ResponseWriter, r *http.Request) {
	var req creditRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteJSONError(w, "bad request", http.StatusBadRequest)
		return
	}

	userID, source, ok := h.authorizeCredit(&req)
	if !ok {
		shared.WriteJSONError(w, "forbidden", http.StatusForbidden)
		return
	}

	if req.Amount <= 0 {
		shared.WriteJSONError(w, "invalid amount", http.StatusBadRequest)
		return
	}
	if userID == 0 {
		shared.WriteJSONError(w, "invalid user", http.StatusBadRequest)
		return
	}

	_, err := h.Storage.Transfer(storage.TreasuryID, userID, req.Amount, storage.KindCredit, "webapp")
	switch {
	case errors.Is(err, storage.ErrNotFound):
		shared.WriteJSONError(w, "user not found", http.StatusNotFound)
		return
	case errors.Is(err, storage.ErrInsufficientFunds):
		shared.WriteJSONError(w, "insufficient funds", http.StatusConflict)
		return
	case err != nil:
		h.Logger.Error("credit failed", "user_id", userID, "amount", req.Amount, "error", err)
		shared.WriteJSONError(w, "internal error", http.StatusInternalServerError)
		return
	}

	metrics.CreditsGranted.WithLabelValues(source).Inc()
	h.Logger.Info("credit granted", "user_id", userID, "amount", req.Amount, "source", source)

	shared.WriteJSON(w, map[string]any{
		"ok":       true,
		"credited": req.Amount,
	}, http.StatusOK)
}

// authorizeCredit decides who the credit goes to. Returns the user ID,
// the auth source label for metrics, and whether the caller may credit
// at all.
func (h *Handlers) authorizeCredit(req *creditRequest) (int64, string, bool) {
	if h.sharedSecret != "" && req.Secret != "" &&
		subtle.ConstantTimeCompare([]byte(req.Secret), []byte(h.sharedSecret)) == 1 {
		return req.UserID, "secret", true
	}

	if req.InitData != "" {
		user, err := h.Verifier.Verify(req.InitData)
		if err != nil {
			return 0, "", false
		}
		return user.ID, "initdata", true
	}

	return 0, "", false
}
