package usecase

import (
	"context"
	"fmt"

	repository "github.com/20mouhcine/EmsiConnect/internal/pkg/chat/persistence/repository/port"
)

// ListParticipantsInput identifies the conversation whose members to list.
type ListParticipantsInput struct {
	ConversationID int64
}

// ListParticipantsUseCase returns the user ids registered in a conversation.
type ListParticipantsUseCase struct {
	Repo repository.ChatRepository
}

func NewListParticipantsUseCase(repo repository.ChatRepository) *ListParticipantsUseCase {
	return &ListParticipantsUseCase{Repo: repo}
}

func (uc *ListParticipantsUseCase) Execute(ctx context.Context, in ListParticipantsInput) ([]int64, error) {
	if in.ConversationID == 0 {
		return nil, fmt.Errorf("conversation_id is required")
	}
	ids, err := uc.Repo.ListParticipantIDs(ctx, in.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return ids, nil
}
