// Package lobby manages multiplayer game lobbies and the websocket
// rooms that relay messages between their players.
package lobby

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Lobby states.
const (
	StateWaiting = "waiting"
	StateStarted = "started"
)

// Defaults for freshly created lobbies.
const (
	DefaultGame       = "ludo"
	DefaultMaxPlayers = 4
)

var (
	ErrNotFound = errors.New("lobby not found")
	ErrFull     = errors.New("lobby full")
	ErrStarted  = errors.New("already started")
)

// Lobby is one joinable game room.
type Lobby struct {
	ID         string    `json:"id"`
	Game       string    `json:"game"`
	Host       int64     `json:"host"`
	Players    []int64   `json:"players"`
	MaxPlayers int       `json:"max_players"`
	State      string    `json:"state"`
	CreatedAt  time.Time `json:"created_at"`
}

// Manager owns the lobby set and its rooms. Lobbies live in memory;
// a restart clears them, which is fine for pick-up games.
type Manager struct {
	mu      sync.RWMutex
	lobbies map[string]*Lobby
	rooms   map[string]*Room
	logger  *slog.Logger
}

// NewManager creates an empty lobby manager.
func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		lobbies: make(map[string]*Lobby),
		rooms:   make(map[string]*Room),
		logger:  logger,
	}
}

// Create opens a lobby with the host already seated.
func (m *Manager) Create(host int64, game string, maxPlayers int) *Lobby {
	if game == "" {
		game = DefaultGame
	}
	if maxPlayers <= 0 {
		maxPlayers = DefaultMaxPlayers
	}

	l := &Lobby{
		ID:         uuid.New().String()[:8],
		Game:       game,
		Host:       host,
		Players:    []int64{host},
		MaxPlayers: maxPlayers,
		State:      StateWaiting,
		CreatedAt:  time.Now().UTC(),
	}

	m.mu.Lock()
	m.lobbies[l.ID] = l
	m.mu.Unlock()

	m.logger.Info("lobby created", "lobby", l.ID, "game", l.Game, "host", host)
	return snapshot(l)
}

// Get returns a snapshot of the lobby.
func (m *Manager) Get(id string) (*Lobby, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.lobbies[id]
	if !ok {
		return nil, ErrNotFound
	}
	return snapshot(l), nil
}

// Join seats a player. Joining a lobby you are already in succeeds
// without a second seat.
func (m *Manager) Join(id string, userID int64) (*Lobby, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.lobbies[id]
	if !ok {
		return nil, ErrNotFound
	}

	for _, p := range l.Players {
		if p == userID {
			return snapshot(l), nil
		}
	}
	if len(l.Players) >= l.MaxPlayers {
		return nil, ErrFull
	}

	l.Players = append(l.Players, userID)
	return snapshot(l), nil
}

// Start flips a waiting lobby to started.
func (m *Manager) Start(id string) (*Lobby, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.lobbies[id]
	if !ok {
		return nil, ErrNotFound
	}
	if l.State != StateWaiting {
		return nil, ErrStarted
	}

	l.State = StateStarted
	m.logger.Info("lobby started", "lobby", l.ID, "players", len(l.Players))
	return snapshot(l), nil
}

// Room returns the relay room for a lobby, creating it on first use.
func (m *Manager) Room(id string) (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.lobbies[id]; !ok {
		return nil, ErrNotFound
	}

	room, ok := m.rooms[id]
	if !ok {
		room = newRoom(id, m.logger)
		m.rooms[id] = room
		go room.run()
	}
	return room, nil
}

// Run keeps the lobby set tidy until the context is cancelled.
func (m *Manager) Run(ctx context.Context) error {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.cleanupStale(time.Hour)
		}
	}
}

// cleanupStale drops lobbies older than maxAge with nobody connected.
func (m *Manager) cleanupStale(maxAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().UTC().Add(-maxAge)
	for id, l := range m.lobbies {
		if l.CreatedAt.After(cutoff) {
			continue
		}
		if room, ok := m.rooms[id]; ok {
			if room.ClientCount() > 0 {
				continue
			}
			room.stop()
			delete(m.rooms, id)
		}
		delete(m.lobbies, id)
		m.logger.Info("stale lobby removed", "lobby", id)
	}
}

// snapshot copies a lobby so callers cannot mutate manager state.
func snapshot(l *Lobby) *Lobby {
	out := *l
	out.Players = append([]int64(nil), l.Players...)
	return &out
}
