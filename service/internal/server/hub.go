package server

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/jason-s-yu/gemduel/service/internal/game"
	"github.com/sirupsen/logrus"
)

// sendBuffer is how many events may queue for a slow client before further
// events are dropped.
const sendBuffer = 64

const writeTimeout = 5 * time.Second

// client is one live websocket connection.
type client struct {
	playerID uuid.UUID
	conn     *websocket.Conn
	send     chan game.GameEvent
	done     chan struct{}
}

// Hub routes game events to connected players. Each player has at most one
// connection; a new one replaces the old.
type Hub struct {
	mu      sync.Mutex
	clients map[uuid.UUID]*client
	log     logrus.FieldLogger
}

// NewHub returns an empty hub.
func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{clients: make(map[uuid.UUID]*client), log: log}
}

// Register attaches conn for playerID and starts its writer. The returned
// func detaches it and reports false when a newer connection had already
// replaced it.
func (h *Hub) Register(ctx context.Context, playerID uuid.UUID, conn *websocket.Conn) func() bool {
	c := &client{
		playerID: playerID,
		conn:     conn,
		send:     make(chan game.GameEvent, sendBuffer),
		done:     make(chan struct{}),
	}
	h.mu.Lock()
	old := h.clients[playerID]
	if old != nil {
		close(old.done)
	}
	h.clients[playerID] = c
	h.mu.Unlock()
	if old != nil {
		old.conn.Close(websocket.StatusPolicyViolation, "Replaced by a newer connection.")
	}

	go h.writeLoop(ctx, c)

	return func() bool {
		h.mu.Lock()
		defer h.mu.Unlock()
		if h.clients[playerID] != c {
			return false
		}
		delete(h.clients, playerID)
		close(c.done)
		return true
	}
}

func (h *Hub) writeLoop(ctx context.Context, c *client) {
	for {
		select {
		case <-c.done:
			return
		case <-ctx.Done():
			return
		case ev := <-c.send:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(wctx, c.conn, ev)
			cancel()
			if err != nil {
				h.log.WithField("player", c.playerID).Warnf("Websocket write failed: %v", err)
				return
			}
		}
	}
}

// Send queues ev for playerID. It never blocks.
func (h *Hub) Send(playerID uuid.UUID, ev game.GameEvent) {
	h.mu.Lock()
	c := h.clients[playerID]
	h.mu.Unlock()
	if c == nil {
		return
	}
	select {
	case c.send <- ev:
	default:
		h.log.WithField("player", playerID).Warnf("Dropping %s event for slow client.", ev.Type)
	}
}

// Connected reports whether playerID has a live connection.
func (h *Hub) Connected(playerID uuid.UUID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clients[playerID] != nil
}
