package ws

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// StockEvent is pushed to connected clients whenever the engine applies a
// ledger operation.
type StockEvent struct {
	Action  string      `json:"action"` // restock_applied, sale_applied, return_applied
	Message string      `json:"message"`
	Product interface{} `json:"product,omitempty"`
	Ledger  interface{} `json:"transaction,omitempty"`
	Actor   interface{} `json:"user,omitempty"`
}

// Hub fans ledger events out to websocket clients.
type Hub struct {
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn

	clients   map[*websocket.Conn]bool
	broadcast chan []byte
	mutex     sync.Mutex
	log       *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, 64),
		log:        log,
	}
}

// Publish enqueues an event without blocking the caller; events are dropped
// when the buffer is full rather than stalling a stock operation.
func (h *Hub) Publish(event StockEvent) {
	msg, err := json.Marshal(event)
	if err != nil {
		h.log.Warn("failed to marshal stock event", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn("stock event dropped, broadcast buffer full")
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.clients[conn] = true
			h.mutex.Unlock()
			h.log.Info("websocket client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.mutex.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}
