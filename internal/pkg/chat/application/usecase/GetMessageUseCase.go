package usecase

import (
	"context"
	"fmt"

	chat "github.com/20mouhcine/EmsiConnect/internal/pkg/chat/application/domain"
	repository "github.com/20mouhcine/EmsiConnect/internal/pkg/chat/persistence/repository/port"
)

// GetMessageInput carries parameters to fetch messages of a conversation.
// AfterID is the reconnect cursor: clients pass the last message id they saw
// and receive everything persisted since, in delivery order.
type GetMessageInput struct {
	ConversationID int64
	AfterID        int64
}

// GetMessageUseCase fetches messages for a given conversation.
type GetMessageUseCase struct {
	Repo repository.ChatRepository
}

func NewGetMessageUseCase(repo repository.ChatRepository) *GetMessageUseCase {
	return &GetMessageUseCase{Repo: repo}
}

func (uc *GetMessageUseCase) Execute(ctx context.Context, in GetMessageInput) ([]chat.Message, error) {
	if in.ConversationID == 0 {
		return nil, fmt.Errorf("conversation_id is required")
	}
	msgs, err := uc.Repo.ListMessagesSince(ctx, in.ConversationID, in.AfterID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msgs, nil
}
