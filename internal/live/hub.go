package live

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	clientSendBuf = 256
	writeDeadline = 5 * time.Second
	pongWait      = 30 * time.Second
	pingInterval  = 20 * time.Second

	// backlogSize is the number of recent events replayed to a client
	// joining a match mid-innings.
	backlogSize = 50
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool { return true },
}

type matchClient struct {
	matchID uint
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
}

// Hub fans out scoring events to WebSocket clients grouped by match.
// It implements Publisher; Publish never blocks the caller.
type Hub struct {
	mu      sync.Mutex
	rooms   map[uint]map[*matchClient]struct{}
	backlog map[uint][]Event
}

func NewHub() *Hub {
	return &Hub{
		rooms:   make(map[uint]map[*matchClient]struct{}),
		backlog: make(map[uint][]Event),
	}
}

// Publish serializes the event and enqueues it to every client watching the
// match (non-blocking; slow clients drop messages). The event is also
// appended to the match backlog for late joiners.
func (h *Hub) Publish(matchID uint, eventType string, payload any) {
	evt := Event{
		MatchID:   matchID,
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}

	data, err := json.Marshal(evt)
	if err != nil {
		log.Printf("live: marshal error for %s on match %d: %v", eventType, matchID, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.appendBacklog(matchID, evt)

	for c := range h.rooms[matchID] {
		select {
		case c.send <- data:
		default:
			log.Printf("live: dropping %s for slow client on match %d", eventType, matchID)
		}
	}
}

// appendBacklog records the event, evicting the oldest once the match
// backlog exceeds backlogSize. Caller must hold h.mu.
func (h *Hub) appendBacklog(matchID uint, evt Event) {
	entries := append(h.backlog[matchID], evt)
	if len(entries) > backlogSize {
		entries = entries[len(entries)-backlogSize:]
	}
	h.backlog[matchID] = entries
}

// Backlog returns a copy of the buffered events for a match, oldest first.
func (h *Hub) Backlog(matchID uint) []Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Event, len(h.backlog[matchID]))
	copy(out, h.backlog[matchID])
	return out
}

// DropMatch discards the backlog and disconnect-signals for a finished match.
func (h *Hub) DropMatch(matchID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.backlog, matchID)
}

// HandleWS upgrades the request and registers the client in the match room.
// Buffered events are replayed before live delivery starts.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request, matchID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("live: upgrade failed: %v", err)
		return
	}

	c := &matchClient{
		matchID: matchID,
		conn:    conn,
		send:    make(chan []byte, clientSendBuf),
		done:    make(chan struct{}),
	}

	h.mu.Lock()
	if h.rooms[matchID] == nil {
		h.rooms[matchID] = make(map[*matchClient]struct{})
	}
	h.rooms[matchID][c] = struct{}{}
	for _, evt := range h.backlog[matchID] {
		if data, err := json.Marshal(evt); err == nil {
			c.send <- data
		}
	}
	h.mu.Unlock()

	go h.writePump(c)
	go h.readPump(c)
}

// writePump drains the client's send channel and writes to the WS connection.
// It owns the client lifecycle: on exit it removes the client from the room
// (so Publish never sends to a stale channel) and closes the connection.
func (h *Hub) writePump(c *matchClient) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		h.removeClient(c)
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-c.done:
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump keeps the connection alive by reading pongs / close frames.
// Viewers send nothing upstream. On exit it signals writePump via c.done.
func (h *Hub) readPump(c *matchClient) {
	defer close(c.done)

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) removeClient(c *matchClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room := h.rooms[c.matchID]
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, c.matchID)
	}
}
