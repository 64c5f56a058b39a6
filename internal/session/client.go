package session

import (
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

// Client represents a connected WebSocket client.
type Client struct {
	ID   uint64
	Conn *websocket.Conn

	mu       sync.RWMutex
	items    map[string]bool // item id -> subscribed
	allItems bool            // subscribed to all items

	sendCh     chan []byte
	done       chan struct{}
	closeOnce  sync.Once
	bufferSize int

	// stats
	Dropped uint64
}

var clientIDCounter uint64

// NewClient creates a new client wrapping a WebSocket connection.
func NewClient(conn *websocket.Conn, bufferSize int) *Client {
	c := &Client{
		ID:         atomic.AddUint64(&clientIDCounter, 1),
		Conn:       conn,
		items:      make(map[string]bool),
		sendCh:     make(chan []byte, bufferSize),
		done:       make(chan struct{}),
		bufferSize: bufferSize,
	}
	return c
}

// Subscribe adds items to the client's subscription.
func (c *Client) Subscribe(ids []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		c.items[id] = true
	}
}

// SubscribeAll subscribes the client to all items.
func (c *Client) SubscribeAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.allItems = true
}

// Unsubscribe removes items from the client's subscription.
func (c *Client) Unsubscribe(ids []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.items, id)
	}
}

// IsSubscribed checks if the client is subscribed to a given item.
func (c *Client) IsSubscribed(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.allItems {
		return true
	}
	return c.items[id]
}

// SubscribedItems returns the set of subscribed item ids.
func (c *Client) SubscribedItems() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.allItems {
		return nil // caller should treat nil as "all"
	}
	out := make([]string, 0, len(c.items))
	for id := range c.items {
		out = append(out, id)
	}
	return out
}

// IsAllSubscribed returns true if the client is subscribed to all items.
func (c *Client) IsAllSubscribed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.allItems
}

// Send enqueues data to be sent to the client.
// Returns false if the buffer is full (message dropped).
func (c *Client) Send(data []byte) bool {
	select {
	case c.sendCh <- data:
		return true
	default:
		atomic.AddUint64(&c.Dropped, 1)
		return false
	}
}

// SendCh returns the send channel for the write pump.
func (c *Client) SendCh() <-chan []byte {
	return c.sendCh
}

// Done returns a channel that is closed when the client is disconnected.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close terminates the client connection.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.Conn.Close()
	})
}
