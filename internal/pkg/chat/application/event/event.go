// Package event defines the wire contract of the realtime chat channel: the
// inbound frame envelope parsed from clients and the outbound events fanned
// out to rooms.
package event

import (
	"encoding/json"
	"time"

	chat "github.com/20mouhcine/EmsiConnect/internal/pkg/chat/application/domain"
)

// Frame type discriminators.
const (
	TypeSendMessage    = "send-message"
	TypeMarkRead       = "mark-read"
	TypeMessageCreated = "message-created"
	TypeReadReceipt    = "read-receipt"
)

// Inbound is the envelope for client frames. Fields not used by a given type
// are simply ignored.
type Inbound struct {
	Type      string `json:"type"`
	Content   string `json:"content"`
	MessageID int64  `json:"message_id"`
}

// ParseInbound decodes a client frame. A non-nil error means the frame is not
// parseable as the envelope format; per protocol, such frames are dropped.
func ParseInbound(data []byte) (Inbound, error) {
	var f Inbound
	if err := json.Unmarshal(data, &f); err != nil {
		return Inbound{}, err
	}
	return f, nil
}

type messagePayload struct {
	ID        int64     `json:"id"`
	Sender    int64     `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type messageCreated struct {
	Type    string         `json:"type"`
	Message messagePayload `json:"message"`
}

type readReceipt struct {
	Type      string `json:"type"`
	MessageID int64  `json:"message_id"`
}

// MessageCreated encodes the event broadcast after a message is persisted.
// It carries the server-confirmed copy, which the sender's UI also relies on
// (self-echo instead of optimistic local rendering).
func MessageCreated(m chat.Message) ([]byte, error) {
	return json.Marshal(messageCreated{
		Type: TypeMessageCreated,
		Message: messagePayload{
			ID:        m.ID,
			Sender:    m.SenderID,
			Content:   m.Content,
			Timestamp: m.CreatedAt,
		},
	})
}

// ReadReceipt encodes the event broadcast after a mark-read completes.
func ReadReceipt(messageID int64) ([]byte, error) {
	return json.Marshal(readReceipt{Type: TypeReadReceipt, MessageID: messageID})
}
