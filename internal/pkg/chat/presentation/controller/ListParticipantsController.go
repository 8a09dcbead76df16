package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	cacheport "github.com/20mouhcine/EmsiConnect/internal/infrastructure/cache/port"
	chat "github.com/20mouhcine/EmsiConnect/internal/pkg/chat/application/domain"
	"github.com/20mouhcine/EmsiConnect/internal/pkg/chat/application/usecase"
	"github.com/20mouhcine/EmsiConnect/internal/pkg/chat/presentation/identity"
	repository "github.com/20mouhcine/EmsiConnect/internal/pkg/chat/persistence/repository/port"
)

// ListParticipantsController serves the member list of a conversation. Only
// participants may read it; the membership check mirrors the catch-up query.
type ListParticipantsController struct {
	UC     *usecase.ListParticipantsUseCase
	joinUC *usecase.JoinConversationUseCase
}

func NewListParticipantsController(repo repository.ChatRepository, cache cacheport.Cache) *ListParticipantsController {
	return &ListParticipantsController{
		UC:     usecase.NewListParticipantsUseCase(repo),
		joinUC: usecase.NewJoinConversationUseCase(repo, cache),
	}
}

func (h *ListParticipantsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID, err := strconv.ParseInt(c.Param("conversationId"), 10, 64)
		if err != nil || conversationID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "conversationId must be a positive integer"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		caller := identity.FromContext(c)
		if err := h.joinUC.Execute(ctx, usecase.JoinConversationInput{
			ConversationID: conversationID,
			UserID:         caller.UserID,
		}); err != nil {
			if errors.Is(err, chat.ErrNotParticipant) {
				c.JSON(http.StatusForbidden, gin.H{"error": "not a participant"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "membership check failed"})
			return
		}

		ids, err := h.UC.Execute(ctx, usecase.ListParticipantsInput{ConversationID: conversationID})
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"conversation_id": conversationID,
			"participants":    ids,
			"count":           len(ids),
		})
	}
}
