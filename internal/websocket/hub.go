// Package websocket pushes live balance updates to connected dashboards.
// Every staff session sees every client's balance, so broadcasts fan out to
// all connections rather than per-user channels.
package websocket

import (
	"encoding/json"
	"sync"
)

type SaldoUpdate struct {
	ClienteID string `json:"cliente_id"`
	Saldo     string `json:"saldo"`
}

type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

// BroadcastSaldo sends the update to every connection, dropping it for
// clients whose send buffer is full.
func (h *Hub) BroadcastSaldo(update SaldoUpdate) {
	payload, _ := json.Marshal(update)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
		}
	}
}
