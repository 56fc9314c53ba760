package webapp

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/oneworldlabs/oneworld/internal/auth"
	"github.com/oneworldlabs/oneworld/internal/lobby"
	"github.com/oneworldlabs/oneworld/internal/storage"
	"github.com/oneworldlabs/oneworld/internal/storage/models"
	"github.com/oneworldlabs/oneworld/internal/transport/http/middleware"
)

const (
	testBotToken = "12345:TEST-TOKEN"
	testSecret   = "s3cret"
)

func newTestHandlers(t *testing.T) (*Handlers, storage.Storage) {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"), 1_000_000)
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if _, err := store.CreateUser(&models.User{ID: 7, Username: "ann"}, 100); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(
		store,
		auth.NewVerifier(testBotToken, nil),
		auth.NewSessions("session-secret"),
		lobby.NewManager(logger),
		testSecret,
		logger,
	)
	return h, store
}

// signInitData builds a signed initData string the way Telegram does.
func signInitData(t *testing.T, fields map[string]string) string {
	t.Helper()

	lines := make([]string, 0, len(fields))
	for k, v := range fields {
		lines = append(lines, k+"="+v)
	}
	sort.Strings(lines)

	secret := sha256.Sum256([]byte(testBotToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(strings.Join(lines, "\n")))

	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}
	values.Set("hash", hex.EncodeToString(mac.Sum(nil)))
	return values.Encode()
}

func initDataFor(t *testing.T, userJSON string) string {
	return signInitData(t, map[string]string{
		"auth_date": strconv.FormatInt(time.Now().Unix(), 10),
		"user":      userJSON,
	})
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var m map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rec.Body.String())
	}
	return m
}

func balanceOf(t *testing.T, store storage.Storage, id int64) int64 {
	t.Helper()

	u, err := store.GetUser(id)
	if err != nil {
		t.Fatalf("failed to load user %d: %v", id, err)
	}
	return u.Balance
}

func TestCreditWithSecret(t *testing.T) {
	h, store := newTestHandlers(t)

	rec := postJSON(t, h.Credit, "/webapp/credit", map[string]any{
		"user_id": 7,
		"amount":  10,
		"secret":  testSecret,
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["ok"] != true || body["credited"] != float64(10) {
		t.Errorf("unexpected body: %v", body)
	}
	if got := balanceOf(t, store, 7); got != 110 {
		t.Errorf("balance = %d, want 110", got)
	}
}

func TestCreditWithInitData(t *testing.T) {
	h, store := newTestHandlers(t)

	// The body claims user 999; the verified payload says user 7. The
	// payload wins.
	rec := postJSON(t, h.Credit, "/webapp/credit", map[string]any{
		"user_id":   999,
		"amount":    10,
		"init_data": initDataFor(t, `{"id":7,"first_name":"Ann"}`),
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	if got := balanceOf(t, store, 7); got != 110 {
		t.Errorf("balance = %d, want 110", got)
	}
}

func TestCreditForbidden(t *testing.T) {
	h, store := newTestHandlers(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{
			name: "no credentials",
			body: map[string]any{"user_id": 7, "amount": 10},
		},
		{
			name: "wrong secret",
			body: map[string]any{"user_id": 7, "amount": 10, "secret": "nope"},
		},
		{
			name: "forged init data",
			body: map[string]any{"amount": 10, "init_data": "user=%7B%22id%22%3A7%7D&hash=abcd"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, h.Credit, "/webapp/credit", tt.body)
			if rec.Code != http.StatusForbidden {
				t.Errorf("status = %d, want 403", rec.Code)
			}
			body := decodeBody(t, rec)
			if body["error"] != "forbidden" {
				t.Errorf("error = %v, want forbidden", body["error"])
			}
		})
	}

	if got := balanceOf(t, store, 7); got != 100 {
		t.Errorf("balance changed to %d on refused credits", got)
	}
}

func TestCreditValidation(t *testing.T) {
	h, _ := newTestHandlers(t)

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantError  string
	}{
		{
			name:       "zero amount",
			body:       map[string]any{"user_id": 7, "amount": 0, "secret": testSecret},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid amount",
		},
		{
			name:       "negative amount",
			body:       map[string]any{"user_id": 7, "amount": -5, "secret": testSecret},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid amount",
		},
		{
			name:       "missing user",
			body:       map[string]any{"amount": 10, "secret": testSecret},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid user",
		},
		{
			name:       "unknown user",
			body:       map[string]any{"user_id": 55, "amount": 10, "secret": testSecret},
			wantStatus: http.StatusNotFound,
			wantError:  "user not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, h.Credit, "/webapp/credit", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			body := decodeBody(t, rec)
			if body["error"] != tt.wantError {
				t.Errorf("error = %v, want %q", body["error"], tt.wantError)
			}
		})
	}
}

func TestVerifyInit(t *testing.T) {
	h, _ := newTestHandlers(t)

	t.Run("valid payload gets a session", func(t *testing.T) {
		rec := postJSON(t, h.VerifyInit, "/webapp/verify", map[string]any{
			"init_data": initDataFor(t, `{"id":7,"first_name":"Ann","username":"ann"}`),
		})

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["ok"] != true {
			t.Fatalf("ok = %v, want true", body["ok"])
		}

		token, _ := body["token"].(string)
		userID, err := h.Sessions.Parse(token)
		if err != nil {
			t.Fatalf("issued token does not parse: %v", err)
		}
		if userID != 7 {
			t.Errorf("token user = %d, want 7", userID)
		}
	})

	t.Run("invalid payload reports ok false", func(t *testing.T) {
		rec := postJSON(t, h.VerifyInit, "/webapp/verify", map[string]any{
			"init_data": "user=%7B%22id%22%3A7%7D&hash=ffff",
		})

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["ok"] != false {
			t.Errorf("ok = %v, want false", body["ok"])
		}
		if _, hasToken := body["token"]; hasToken {
			t.Error("failed verification must not issue a token")
		}
	})
}

func asUser(req *http.Request, userID int64) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	return req.WithContext(ctx)
}

func TestLobbyFlow(t *testing.T) {
	h, _ := newTestHandlers(t)

	// Host creates a lobby.
	buf, _ := json.Marshal(map[string]any{"game": "ludo", "max_players": 2})
	req := asUser(httptest.NewRequest(http.MethodPost, "/webapp/lobby/create", bytes.NewReader(buf)), 7)
	rec := httptest.NewRecorder()
	h.CreateLobby(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d (%s)", rec.Code, rec.Body.String())
	}
	lobbyID, _ := decodeBody(t, rec)["lobby_id"].(string)
	if len(lobbyID) != 8 {
		t.Fatalf("lobby_id = %q, want 8 characters", lobbyID)
	}

	// Status shows the host seated.
	req = httptest.NewRequest(http.MethodGet, "/webapp/lobby/"+lobbyID, nil)
	req.SetPathValue("id", lobbyID)
	rec = httptest.NewRecorder()
	h.LobbyStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status status = %d", rec.Code)
	}
	lobbyObj, _ := decodeBody(t, rec)["lobby"].(map[string]any)
	if lobbyObj["state"] != "waiting" {
		t.Errorf("state = %v, want waiting", lobbyObj["state"])
	}

	// Second player joins.
	buf, _ = json.Marshal(map[string]any{"lobby_id": lobbyID})
	req = asUser(httptest.NewRequest(http.MethodPost, "/webapp/lobby/join", bytes.NewReader(buf)), 8)
	rec = httptest.NewRecorder()
	h.JoinLobby(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("join status = %d (%s)", rec.Code, rec.Body.String())
	}

	// Third player bounces off the full lobby.
	buf, _ = json.Marshal(map[string]any{"lobby_id": lobbyID})
	req = asUser(httptest.NewRequest(http.MethodPost, "/webapp/lobby/join", bytes.NewReader(buf)), 9)
	rec = httptest.NewRecorder()
	h.JoinLobby(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("full join status = %d, want 400", rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != "lobby full" {
		t.Errorf("error = %v, want lobby full", got)
	}

	// Start once, then again.
	req = httptest.NewRequest(http.MethodPost, "/webapp/lobby/"+lobbyID+"/start", nil)
	req.SetPathValue("id", lobbyID)
	rec = httptest.NewRecorder()
	h.StartLobby(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("start status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/webapp/lobby/"+lobbyID+"/start", nil)
	req.SetPathValue("id", lobbyID)
	rec = httptest.NewRecorder()
	h.StartLobby(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("restart status = %d, want 400", rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != "already started" {
		t.Errorf("error = %v, want already started", got)
	}
}

func TestLobbyNotFound(t *testing.T) {
	h, _ := newTestHandlers(t)

	buf, _ := json.Marshal(map[string]any{"lobby_id": "missing1"})
	req := asUser(httptest.NewRequest(http.MethodPost, "/webapp/lobby/join", bytes.NewReader(buf)), 7)
	rec := httptest.NewRecorder()
	h.JoinLobby(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("join status = %d, want 404", rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != "lobby not found" {
		t.Errorf("error = %v, want lobby not found", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/webapp/lobby/missing1", nil)
	req.SetPathValue("id", "missing1")
	rec = httptest.NewRecorder()
	h.LobbyStatus(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status status = %d, want 404", rec.Code)
	}
}

func TestHubServesEmbeddedFrontend(t *testing.T) {
	h, _ := newTestHandlers(t)
	hub := h.Hub()

	req := httptest.NewRequest(http.MethodGet, "/webapp/", nil)
	rec := httptest.NewRecorder()
	hub.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("index status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "slots.js") {
		t.Error("index.html does not reference the slots script")
	}

	req = httptest.NewRequest(http.MethodGet, "/webapp/static/js/slots.js", nil)
	rec = httptest.NewRecorder()
	hub.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("script status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/webapp/credit") {
		t.Error("slots script does not call the credit endpoint")
	}
}
