package router

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/sim-trading/src/simulator-api/models"
)

const (
	streamClientBuffer = 32
	streamWriteTimeout = 5 * time.Second
)

type streamClient struct {
	conn *websocket.Conn
	send chan []byte
}

// StreamHub pushes every tick delta to the connected websocket clients. A
// client that falls behind loses messages; it never slows the engine down.
type StreamHub struct {
	mu       sync.Mutex
	upgrader websocket.Upgrader
	clients  map[*streamClient]struct{}
	closed   bool
}

func (h *StreamHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("StreamHub: upgrade failed: %v", err)
		return
	}

	client := &streamClient{
		conn: conn,
		send: make(chan []byte, streamClientBuffer),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}

	h.clients[client] = struct{}{}
	h.mu.Unlock()

	log.Debugf("StreamHub: client %s connected", conn.RemoteAddr())

	go h.writeLoop(client)
	go h.readLoop(client)
}

// Broadcast encodes delta once and queues it for every client.
func (h *StreamHub) Broadcast(delta *models.TickDelta) {
	payload, err := json.Marshal(delta)
	if err != nil {
		log.Errorf("StreamHub.Broadcast: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			log.Debugf("StreamHub: dropping tick %d for slow client %s", delta.Tick, client.conn.RemoteAddr())
		}
	}
}

func (h *StreamHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.clients)
}

// Close disconnects every client and refuses new ones.
func (h *StreamHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for client := range h.clients {
		h.removeLocked(client)
	}
}

func (h *StreamHub) remove(client *streamClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(client)
}

func (h *StreamHub) removeLocked(client *streamClient) {
	if _, found := h.clients[client]; !found {
		return
	}

	delete(h.clients, client)
	close(client.send)
}

func (h *StreamHub) writeLoop(client *streamClient) {
	defer client.conn.Close()

	for payload := range client.send {
		client.conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		if err := client.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Debugf("StreamHub: write failed: %v", err)
			h.remove(client)
			return
		}
	}

	client.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// readLoop discards client messages and notices disconnects.
func (h *StreamHub) readLoop(client *streamClient) {
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			h.remove(client)
			return
		}
	}
}

func NewStreamHub() *StreamHub {
	return &StreamHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*streamClient]struct{}),
	}
}
