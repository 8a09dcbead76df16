package usecase

import (
	"context"
	"fmt"
	"time"

	chat "github.com/20mouhcine/EmsiConnect/internal/pkg/chat/application/domain"
	repository "github.com/20mouhcine/EmsiConnect/internal/pkg/chat/persistence/repository/port"
)

// CreateChatInput carries the required data to open a new conversation.
type CreateChatInput struct {
	ParticipantIDs []int64
}

// CreateChatUseCase handles creation of a new conversation and its participants.
// Hexagonal: depends on repository port only; one class per use case.
type CreateChatUseCase struct {
	Repo repository.ChatRepository
}

func NewCreateChatUseCase(repo repository.ChatRepository) *CreateChatUseCase {
	return &CreateChatUseCase{Repo: repo}
}

// Execute persists a conversation and registers its participants. A
// conversation needs at least two distinct members.
func (uc *CreateChatUseCase) Execute(ctx context.Context, in CreateChatInput) (*chat.Conversation, error) {
	distinct := make([]int64, 0, len(in.ParticipantIDs))
	seen := make(map[int64]struct{}, len(in.ParticipantIDs))
	for _, id := range in.ParticipantIDs {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}
	if len(distinct) < 2 {
		return nil, fmt.Errorf("participant_ids must include at least two distinct user ids")
	}

	conv := chat.Conversation{CreatedAt: time.Now().UTC()}
	id, err := uc.Repo.CreateConversation(ctx, conv)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	conv.ID = id

	for _, uid := range distinct {
		p := chat.Participant{ConversationID: id, UserID: uid}
		if err := uc.Repo.AddParticipant(ctx, p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	return &conv, nil
}
