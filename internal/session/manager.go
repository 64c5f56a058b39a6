package session

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/tallow-games/bazaarsim/internal/live"
	"github.com/tallow-games/bazaarsim/internal/market"
)

// Manager handles client registration, subscriptions, and tick fan-out.
type Manager struct {
	mu         sync.RWMutex
	clients    map[uint64]*Client
	catalog    []market.Item
	byID       map[string]bool
	bufferSize int
}

// NewManager creates a session manager over the item catalog.
func NewManager(catalog []market.Item, bufferSize int) *Manager {
	byID := make(map[string]bool, len(catalog))
	for _, it := range catalog {
		byID[it.ID] = true
	}
	return &Manager{
		clients:    make(map[uint64]*Client),
		catalog:    catalog,
		byID:       byID,
		bufferSize: bufferSize,
	}
}

// Register adds a new client. Returns the client for further use.
func (m *Manager) Register(conn *websocket.Conn) *Client {
	c := NewClient(conn, m.bufferSize)

	m.mu.Lock()
	m.clients[c.ID] = c
	m.mu.Unlock()

	log.Printf("client %d connected (%s)", c.ID, conn.RemoteAddr())
	return c
}

// Unregister removes a client.
func (m *Manager) Unregister(c *Client) {
	m.mu.Lock()
	delete(m.clients, c.ID)
	m.mu.Unlock()

	c.Close()
	log.Printf("client %d disconnected", c.ID)
}

// ResolveItems filters requested item ids against the catalog.
// Returns all=true for "*" (every item).
func (m *Manager) ResolveItems(requested []string) (ids []string, all bool) {
	for _, id := range requested {
		if id == "*" {
			return nil, true
		}
		if m.byID[id] {
			ids = append(ids, id)
		}
	}
	return ids, false
}

// Broadcast fans a batch of tick updates out to all subscribed clients.
// Each update is encoded once and shared across clients.
func (m *Manager) Broadcast(updates []live.TickUpdate) {
	if len(updates) == 0 {
		return
	}

	type encoded struct {
		itemID string
		data   []byte
	}
	batch := make([]encoded, 0, len(updates))
	for _, u := range updates {
		msg := Message{
			Type:          MsgTick,
			Tick:          u.Tick,
			ItemID:        u.ItemID,
			Price:         u.Price,
			ChangePercent: u.ChangePercent,
		}
		data, err := EncodeJSON(&msg)
		if err != nil {
			continue
		}
		batch = append(batch, encoded{itemID: u.ItemID, data: data})
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.clients {
		for _, e := range batch {
			if !c.IsSubscribed(e.itemID) {
				continue
			}
			if !c.Send(e.data) {
				// buffer full, message dropped
			}
		}
	}
}

// SendToClient sends messages directly to a specific client (e.g., item
// directory on subscribe).
func (m *Manager) SendToClient(c *Client, msgs []Message) {
	for i := range msgs {
		data, err := EncodeJSON(&msgs[i])
		if err != nil {
			continue
		}
		c.Send(data)
	}
}

// ClientCount returns the number of connected clients.
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// Catalog returns the item catalog.
func (m *Manager) Catalog() []market.Item {
	return m.catalog
}
