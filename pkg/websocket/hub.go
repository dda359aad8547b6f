package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/fasthttp/websocket"
)

// Event types pushed to admin clients.
const (
	EventAdminState  = "adminState"
	EventBankUpdated = "bankUpdated"
	EventBridgeSync  = "bridgeSync"
)

const writeWait = 5 * time.Second

// Hub fans admin events out to every connected websocket client.
type Hub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	mutex      sync.RWMutex
}

type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

type BankUpdate struct {
	Count  int    `json:"count"`
	Source string `json:"source"`
	Added  int    `json:"added"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
	}
}

// Run serves the hub until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.mutex.Lock()
			for client := range h.clients {
				client.Close()
				delete(h.clients, client)
			}
			h.mutex.Unlock()
			return

		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			log.Printf("🔌 Admin websocket connected. Total: %d", total)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			total := len(h.clients)
			h.mutex.Unlock()
			log.Printf("🔌 Admin websocket disconnected. Total: %d", total)

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				_ = client.SetWriteDeadline(time.Now().Add(writeWait))
				if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
					log.Printf("⚠️ Error sending websocket message: %v", err)
					delete(h.clients, client)
					client.Close()
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Stop closes every client and ends Run.
func (h *Hub) Stop() {
	close(h.done)
}

func (h *Hub) Register(conn *websocket.Conn) {
	select {
	case h.register <- conn:
	case <-h.done:
	}
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// ClientCount is the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// Encode builds the wire form of an event.
func Encode(msgType string, data interface{}) ([]byte, error) {
	return json.Marshal(Message{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// BroadcastBankUpdate tells admin clients the user bank changed.
func (h *Hub) BroadcastBankUpdate(count int, source string, added int) {
	h.BroadcastMessage(EventBankUpdated, BankUpdate{Count: count, Source: source, Added: added})
}

// BroadcastMessage queues an event. When the queue is full the event is
// dropped rather than blocking the caller.
func (h *Hub) BroadcastMessage(msgType string, data interface{}) {
	msgData, err := Encode(msgType, data)
	if err != nil {
		log.Printf("⚠️ Error serializing websocket message: %v", err)
		return
	}

	select {
	case h.broadcast <- msgData:
	default:
		log.Printf("⚠️ Websocket queue full, dropping %s event", msgType)
	}
}
