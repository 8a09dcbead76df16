package chat

import (
	"strings"
	"time"
)

// Message is an immutable log entry in a conversation. CreatedAt is assigned
// by the store at persistence time and is the delivery order within the
// conversation. Read transitions false to true only, never back, and is never
// set by the sender of the message.
type Message struct {
	ID             int64     `db:"id"`
	ConversationID int64     `db:"conversation_id"`
	SenderID       int64     `db:"sender_id"`
	Content        string    `db:"content"`
	CreatedAt      time.Time `db:"created_at"`
	Read           bool      `db:"is_read"`
}

// NewMessage validates and normalizes a message before persistence.
// Whitespace-only content counts as empty.
func NewMessage(conversationID, senderID int64, content string) (*Message, error) {
	if conversationID == 0 || senderID == 0 {
		return nil, ErrInvalidConversation
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	return &Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
	}, nil
}
