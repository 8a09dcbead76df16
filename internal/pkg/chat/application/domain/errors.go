package chat

import "errors"

// Domain-level errors for chat behaviors
var (
	ErrInvalidConversation = errors.New("chat: conversation/message mismatch")
	ErrNotParticipant      = errors.New("chat: user is not a participant in the conversation")
	ErrEmptyMessage        = errors.New("chat: empty message content")
)
