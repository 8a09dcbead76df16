package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	cacheport "github.com/20mouhcine/EmsiConnect/internal/infrastructure/cache/port"
	chat "github.com/20mouhcine/EmsiConnect/internal/pkg/chat/application/domain"
	repository "github.com/20mouhcine/EmsiConnect/internal/pkg/chat/persistence/repository/port"
)

const membershipTTL = 5 * time.Minute

// JoinConversationInput validates a request to attach a user session to a conversation.
type JoinConversationInput struct {
	ConversationID int64
	UserID         int64
}

// JoinConversationUseCase ensures the user belongs to the conversation before
// joining the realtime room. Positive membership answers are cached; cache
// failures fall through to the store, negative answers are never cached so a
// freshly added participant can connect immediately.
type JoinConversationUseCase struct {
	Repo  repository.ChatRepository
	Cache cacheport.Cache // optional; nil disables caching
}

func NewJoinConversationUseCase(repo repository.ChatRepository, cache cacheport.Cache) *JoinConversationUseCase {
	return &JoinConversationUseCase{Repo: repo, Cache: cache}
}

func (uc *JoinConversationUseCase) Execute(ctx context.Context, in JoinConversationInput) error {
	if in.ConversationID == 0 || in.UserID == 0 {
		return fmt.Errorf("conversation_id and user_id are required")
	}

	key := membershipKey(in.ConversationID, in.UserID)
	if uc.Cache != nil {
		if v, err := uc.Cache.Get(ctx, key); err == nil && v == "1" {
			return nil
		}
	}

	ok, err := uc.Repo.IsParticipant(ctx, in.ConversationID, in.UserID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !ok {
		return chat.ErrNotParticipant
	}

	if uc.Cache != nil {
		_ = uc.Cache.Set(ctx, key, "1", membershipTTL)
	}
	return nil
}

func membershipKey(conversationID, userID int64) string {
	return "chat:member:" + strconv.FormatInt(conversationID, 10) + ":" + strconv.FormatInt(userID, 10)
}
