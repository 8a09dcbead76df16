package chat

import "time"

// Conversation is a durable thread between two or more users. The participant
// set only ever grows; messages reference it immutably.
type Conversation struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`
}

// Participant records membership of a user in a conversation.
// Primary key: (ConversationID, UserID).
type Participant struct {
	ConversationID int64 `db:"conversation_id"`
	UserID         int64 `db:"user_id"`
}
