package usecase

import (
	"context"
	"fmt"

	repository "github.com/20mouhcine/EmsiConnect/internal/pkg/chat/persistence/repository/port"
)

// MarkReadInput identifies the message a reader acknowledges.
type MarkReadInput struct {
	ConversationID int64
	MessageID      int64
	ReaderID       int64
}

// MarkReadUseCase flips a message's read flag on behalf of a reader. The
// update is unconditional: an id that matches no row in the conversation, a
// reader acknowledging their own message, or an already-read message are all
// no-ops, not errors. Affected reports whether a row actually changed.
type MarkReadUseCase struct {
	Repo repository.ChatRepository
}

func NewMarkReadUseCase(repo repository.ChatRepository) *MarkReadUseCase {
	return &MarkReadUseCase{Repo: repo}
}

func (uc *MarkReadUseCase) Execute(ctx context.Context, in MarkReadInput) (affected int64, err error) {
	if in.ConversationID == 0 || in.MessageID == 0 || in.ReaderID == 0 {
		return 0, fmt.Errorf("conversation_id, message_id and reader_id are required")
	}

	affected, err = uc.Repo.MarkMessageRead(ctx, in.ConversationID, in.MessageID, in.ReaderID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return affected, nil
}
