package websocket

import (
	"encoding/json"
	"time"
)

type MessageType string

const (
	TypeCartUpdated MessageType = "cart_updated"
	TypePing        MessageType = "ping"
	TypePong        MessageType = "pong"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// CartUpdatedPayload names what changed. Receivers refetch the cart rather
// than apply it.
type CartUpdatedPayload struct {
	Reason     string `json:"reason"`
	DeviceID   string `json:"device_id,omitempty"`
	TotalItems int    `json:"total_items"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	var payloadBytes json.RawMessage
	if payload != nil {
		bytes, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		payloadBytes = bytes
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now(),
		Payload:   payloadBytes,
	}, nil
}

func (m *Message) UnmarshalPayload(v interface{}) error {
	if m.Payload == nil {
		return nil
	}
	return json.Unmarshal(m.Payload, v)
}
