package repository

import (
	"context"

	chat "github.com/20mouhcine/EmsiConnect/internal/pkg/chat/application/domain"
)

// ChatRepository defines persistence operations for the chat domain.
// Implementations provide single-row atomicity; no cross-row transactions are
// required by the realtime core.
type ChatRepository interface {
	// CreateConversation persists a conversation and returns its id.
	CreateConversation(ctx context.Context, c chat.Conversation) (int64, error)

	// AddParticipant registers a user in a conversation (idempotent).
	AddParticipant(ctx context.Context, p chat.Participant) error

	// IsParticipant reports whether the user belongs to the conversation.
	IsParticipant(ctx context.Context, conversationID, userID int64) (bool, error)

	// ListParticipantIDs returns the user ids of all conversation members,
	// in ascending order. An unknown conversation yields an empty slice.
	ListParticipantIDs(ctx context.Context, conversationID int64) ([]int64, error)

	// SaveMessage persists m and returns it with the store-assigned id and
	// timestamp filled in.
	SaveMessage(ctx context.Context, m chat.Message) (chat.Message, error)

	// MarkMessageRead flips the read flag for the message, scoped to the
	// conversation and excluding the given sender, and returns the number of
	// rows changed. Unknown ids are a no-op, not an error.
	MarkMessageRead(ctx context.Context, conversationID, messageID, excludingSender int64) (int64, error)

	// ListMessagesSince returns messages of the conversation with id greater
	// than afterMessageID, in delivery order. afterMessageID zero means all.
	ListMessagesSince(ctx context.Context, conversationID, afterMessageID int64) ([]chat.Message, error)
}
