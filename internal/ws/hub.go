package ws

import (
	"encoding/json"
	"sync"
)

// Client is a single advertiser dashboard connection.
type Client struct {
	AdvertiserID uint
	Send         chan []byte
	Hub          *Hub
	mu           sync.Mutex
	closed       bool
}

// trySend enqueues without blocking. Holding c.mu excludes Close, so the
// channel cannot be closed mid-send.
func (c *Client) trySend(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if c.Hub != nil {
		c.Hub.unregister(c)
	}
}

// Hub maintains the set of active dashboard connections and fans delivery
// events out to the owning advertiser.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	// advertiserID -> clients (one advertiser can have multiple dashboards open)
	byAdvertiser map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:      make(map[*Client]struct{}),
		byAdvertiser: make(map[uint]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.Hub = h
	h.clients[c] = struct{}{}
	if h.byAdvertiser[c.AdvertiserID] == nil {
		h.byAdvertiser[c.AdvertiserID] = make(map[*Client]struct{})
	}
	h.byAdvertiser[c.AdvertiserID][c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
	if m := h.byAdvertiser[c.AdvertiserID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byAdvertiser, c.AdvertiserID)
		}
	}
}

// BroadcastToAdvertiser pushes a payload to every open dashboard of one
// advertiser. Slow consumers are skipped rather than blocked on.
func (h *Hub) BroadcastToAdvertiser(advertiserID uint, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.mu.RLock()
	m := h.byAdvertiser[advertiserID]
	if m == nil {
		h.mu.RUnlock()
		return
	}
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		c.trySend(data)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// DeliveryEvent is the wire shape pushed over /ws/events.
type DeliveryEvent struct {
	Type          string  `json:"type"` // impression | interaction
	AdID          uint    `json:"ad_id"`
	WalletAddress string  `json:"wallet_address"`
	Amount        float64 `json:"amount,omitempty"`
	Timestamp     int64   `json:"timestamp"`
}
