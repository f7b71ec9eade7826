package ws

import (
	"encoding/json"
	"sync"

	"github.com/buildhub/homeowner-gateway/internal/goroutine"
	"github.com/buildhub/homeowner-gateway/internal/logger"
)

// Push event types.
const (
	EventDesignsUpdated   = "designs_updated"
	EventEstimatesUpdated = "estimates_updated"
	EventPaymentUnlocked  = "payment_unlocked"
	EventProgressUpdate   = "progress_update"
)

// Hub fans push events out to each homeowner's open connections.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]bool

	register   chan *Client
	unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		clients:    map[int64]map[*Client]bool{},
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes connect and disconnect events until the channel closes.
func (h *Hub) Run() {
	goroutine.SafeGo("ws-hub", func() {
		for {
			select {
			case client := <-h.register:
				h.add(client)
			case client := <-h.unregister:
				h.remove(client)
			}
		}
	})
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[client.homeownerID] == nil {
		h.clients[client.homeownerID] = map[*Client]bool{}
	}
	h.clients[client.homeownerID][client] = true
	logger.Log.WithField("homeowner_id", client.homeownerID).Debug("ws client connected")
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.clients[client.homeownerID]; ok {
		if conns[client] {
			delete(conns, client)
			close(client.send)
		}
		if len(conns) == 0 {
			delete(h.clients, client.homeownerID)
		}
	}
}

// NotifyUser sends an event to every open connection of one homeowner.
// Connections too slow to drain their buffer are dropped.
func (h *Hub) NotifyUser(homeownerID int64, event string, data interface{}) {
	payload, err := json.Marshal(map[string]interface{}{
		"type": event,
		"data": data,
	})
	if err != nil {
		logger.Log.WithError(err).Error("ws payload marshal failed")
		return
	}

	h.mu.RLock()
	conns := make([]*Client, 0, len(h.clients[homeownerID]))
	for client := range h.clients[homeownerID] {
		conns = append(conns, client)
	}
	h.mu.RUnlock()

	for _, client := range conns {
		select {
		case client.send <- payload:
		default:
			h.mu.Lock()
			if h.clients[homeownerID][client] {
				delete(h.clients[homeownerID], client)
				close(client.send)
			}
			h.mu.Unlock()
		}
	}
}

// ConnectionCount reports open connections for one homeowner.
func (h *Hub) ConnectionCount(homeownerID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[homeownerID])
}
