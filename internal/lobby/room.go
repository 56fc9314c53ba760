package lobby

import (
	"log/slog"
	"sync/atomic"

	"github.com/oneworldlabs/oneworld/internal/metrics"
)

// Room relays every text message to every connected client, the
// sender included. Game state stays client-side; the server is a wire.
type Room struct {
	id     string
	logger *slog.Logger

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}

	count atomic.Int64
}

func newRoom(id string, logger *slog.Logger) *Room {
	return &Room{
		id:         id,
		logger:     logger,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 4),
		unregister: make(chan *Client, 4),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
	}
}

// Broadcast queues a message for every client in the room.
func (r *Room) Broadcast(msg []byte) {
	select {
	case r.broadcast <- msg:
	case <-r.done:
	}
}

// ClientCount reports how many clients are connected.
func (r *Room) ClientCount() int {
	return int(r.count.Load())
}

func (r *Room) stop() {
	close(r.done)
}

func (r *Room) run() {
	for {
		select {
		case <-r.done:
			for c := range r.clients {
				close(c.send)
				delete(r.clients, c)
				r.count.Add(-1)
				metrics.LobbyConnections.Dec()
			}
			return

		case c := <-r.register:
			r.clients[c] = true
			r.count.Add(1)
			metrics.LobbyConnections.Inc()
			r.logger.Info("lobby client joined", "lobby", r.id, "user", c.userID, "clients", len(r.clients))

		case c := <-r.unregister:
			if _, ok := r.clients[c]; ok {
				delete(r.clients, c)
				close(c.send)
				r.count.Add(-1)
				metrics.LobbyConnections.Dec()
				r.logger.Info("lobby client left", "lobby", r.id, "user", c.userID, "clients", len(r.clients))
			}

		case msg := <-r.broadcast:
			for c := range r.clients {
				select {
				case c.send <- msg:
				default:
					// Slow consumer; drop it rather than stall the room.
					delete(r.clients, c)
					close(c.send)
					r.count.Add(-1)
					metrics.LobbyConnections.Dec()
				}
			}
		}
	}
}
