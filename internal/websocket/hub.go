// Package websocket pushes catalog change notifications to connected
// storefronts. A browser that hears catalog_updated refetches the product
// list, so admin edits show up without a reload.
package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/kawuz/kawuz-backend/pkg/logger"
)

// Event is the message broadcast to every connected client.
type Event struct {
	Type      string `json:"type"`                 // always "catalog_updated"
	Action    string `json:"action"`               // created, updated, deleted
	ProductID uint   `json:"product_id,omitempty"` // zero for bulk changes
	Timestamp int64  `json:"timestamp"`
}

const EventCatalogUpdated = "catalog_updated"

// Client is one connected storefront. The catalog feed is public, so clients
// carry no identity.
type Client struct {
	Hub  *Hub
	Conn *Conn
	Send chan []byte
}

// Hub tracks connected clients and fans events out to all of them.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan []byte, 256),
	}
}

// Run processes register, unregister and broadcast events. Call in its own
// goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"total_clients": count,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"total_clients": count,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.Send <- message:
					// delivered
				default:
					// Send buffer full - drop the client asynchronously
					go h.Unregister(client)
					logger.Warn("Client send buffer full, disconnecting", nil)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastCatalogUpdated notifies every client that the catalog changed.
// Delivery is best effort: a full broadcast channel drops the event rather
// than blocking the admin request that triggered it.
func (h *Hub) BroadcastCatalogUpdated(action string, productID uint) {
	event := Event{
		Type:      EventCatalogUpdated,
		Action:    action,
		ProductID: productID,
		Timestamp: time.Now().Unix(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal catalog event", err, nil)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("Broadcast channel full, catalog event dropped", map[string]interface{}{
			"action":     action,
			"product_id": productID,
		})
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
