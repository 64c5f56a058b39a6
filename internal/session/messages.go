package session

import "encoding/json"

// Message types sent to clients.
const (
	MsgDirectory = "directory"
	MsgTick      = "tick"
)

// Message is a server → client feed message. Directory messages describe
// catalog items on subscribe; tick messages carry per-item price updates.
type Message struct {
	Type          string  `json:"type"`
	Tick          uint64  `json:"tick,omitempty"`
	ItemID        string  `json:"itemId"`
	Name          string  `json:"name,omitempty"`
	Category      string  `json:"category,omitempty"`
	BasePrice     float64 `json:"basePrice,omitempty"`
	Price         float64 `json:"price,omitempty"`
	ChangePercent float64 `json:"changePercent,omitempty"`
}

// EncodeJSON serializes a message for the wire.
func EncodeJSON(m *Message) ([]byte, error) {
	return json.Marshal(m)
}
