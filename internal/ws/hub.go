package ws

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	EventOnlineUsers = "online_users"
	EventNewMessage  = "newMessage"
)

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type Client struct {
	ID     string // connection identifier
	UserID uint
	Conn   *websocket.Conn
	Send   chan Event

	ctx    context.Context
	cancel context.CancelFunc
}

// Hub tracks which connection currently represents each user. At most one
// connection per user: a reconnect overwrites the previous entry (last
// writer wins) and the overwritten connection stops receiving broadcasts.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]*Client
}

func NewHub() *Hub {
	return &Hub{clients: map[uint]*Client{}}
}

// Register records conn as the active connection for userID and notifies all
// peers of the new online set.
func (h *Hub) Register(userID uint, conn *websocket.Conn) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		Conn:   conn,
		Send:   make(chan Event, 64),
		ctx:    ctx,
		cancel: cancel,
	}

	h.mu.Lock()
	h.clients[userID] = c
	h.mu.Unlock()

	if conn != nil {
		go c.writeLoop()
		go c.keepAliveLoop()
	}

	h.broadcastOnline()
	return c
}

// Unregister removes c's presence entry, but only if c still owns it: a
// disconnect arriving after the same user re-registered under a fresh
// connection must not erase the fresher mapping.
func (h *Hub) Unregister(c *Client) {
	c.cancel()

	h.mu.Lock()
	removed := false
	if cur, ok := h.clients[c.UserID]; ok && cur.ID == c.ID {
		delete(h.clients, c.UserID)
		removed = true
	}
	h.mu.Unlock()

	if c.Conn != nil {
		_ = c.Conn.Close(websocket.StatusNormalClosure, "bye")
	}

	if removed {
		h.broadcastOnline()
	}
}

// Snapshot returns the IDs of all online users in ascending order.
func (h *Hub) Snapshot() []uint {
	h.mu.RLock()
	ids := make([]uint, 0, len(h.clients))
	for uid := range h.clients {
		ids = append(ids, uid)
	}
	h.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SendToUser delivers ev to userID's active connection, if any. Best-effort:
// a full send buffer drops the event.
func (h *Hub) SendToUser(userID uint, ev Event) bool {
	h.mu.RLock()
	c, ok := h.clients[userID]
	h.mu.RUnlock()
	if !ok {
		return false
	}

	select {
	case c.Send <- ev:
		return true
	default:
		return false
	}
}

// broadcastOnline pushes the current online set to every connected client.
// Fire-and-forget: a slow peer drops the event, there is no replay.
func (h *Hub) broadcastOnline() {
	ids := h.Snapshot()
	ev := Event{Type: EventOnlineUsers, Data: ids}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.Send <- ev:
		default:
		}
	}
}

func (c *Client) writeLoop() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case ev := <-c.Send:
			writeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			_ = wsjson.Write(writeCtx, c.Conn, ev)
			cancel()
		}
	}
}

func (c *Client) keepAliveLoop() {
	ticker := time.NewTicker(25 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = c.Conn.Ping(pingCtx)
			cancel()
		}
	}
}
