package ws

import (
	"encoding/json"
	"sync"

	"shespeaks/internal/logger"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans dashboard events out to every connected viewer
type Hub struct {
	conns map[*Connection]struct{}

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan []byte
	done       chan struct{}
	closeOnce  sync.Once
	stopped    sync.WaitGroup

	log *logger.Logger
}

// Connection represents a WebSocket connection
type Connection struct {
	ID   string
	Send chan []byte
}

// NewHub creates a new WebSocket hub
func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	h := &Hub{
		conns:      make(map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		log:        log.WithComponent("ws-hub"),
	}
	h.stopped.Add(1)
	go h.run()
	return h
}

func (h *Hub) run() {
	defer h.stopped.Done()
	for {
		select {
		case conn := <-h.register:
			h.conns[conn] = struct{}{}
			h.log.WithField("conn_id", conn.ID).WithField("viewers", len(h.conns)).Info("dashboard connected")

		case conn := <-h.unregister:
			if _, ok := h.conns[conn]; ok {
				delete(h.conns, conn)
				close(conn.Send)
				h.log.WithField("conn_id", conn.ID).Info("dashboard disconnected")
			}

		case data := <-h.broadcast:
			for conn := range h.conns {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}

		case <-h.done:
			for conn := range h.conns {
				delete(h.conns, conn)
				close(conn.Send)
			}
			return
		}
	}
}

// Register adds a connection. It reports false once the hub is closed.
func (h *Hub) Register(conn *Connection) bool {
	select {
	case h.register <- conn:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Broadcast sends an event to every viewer (implements service.Broadcaster)
func (h *Hub) Broadcast(msgType string, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		h.log.WithError(err).WithField("type", msgType).Error("unencodable broadcast payload")
		return
	}
	data, _ := json.Marshal(&Message{Type: MessageType(msgType), Payload: raw})

	select {
	case h.broadcast <- data:
	case <-h.done:
	}
}

// Close disconnects every viewer and stops the hub
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
	h.stopped.Wait()
}
