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

// GetMessageController serves the catch-up query: messages of a conversation
// after a given message id, in delivery order. Reconnecting clients pass the
// last id they saw and replay everything broadcast while they were away.
type GetMessageController struct {
	UC     *usecase.GetMessageUseCase
	joinUC *usecase.JoinConversationUseCase
}

func NewGetMessageController(repo repository.ChatRepository, cache cacheport.Cache) *GetMessageController {
	return &GetMessageController{
		UC:     usecase.NewGetMessageUseCase(repo),
		joinUC: usecase.NewJoinConversationUseCase(repo, cache),
	}
}

func (h *GetMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID, err := strconv.ParseInt(c.Param("conversationId"), 10, 64)
		if err != nil || conversationID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "conversationId must be a positive integer"})
			return
		}

		var after int64
		if v := c.Query("after"); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
				after = n
			}
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

		msgs, err := h.UC.Execute(ctx, usecase.GetMessageInput{ConversationID: conversationID, AfterID: after})
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		out := make([]gin.H, 0, len(msgs))
		for _, m := range msgs {
			out = append(out, gin.H{
				"id":              m.ID,
				"conversation_id": m.ConversationID,
				"sender":          m.SenderID,
				"content":         m.Content,
				"timestamp":       m.CreatedAt,
				"is_read":         m.Read,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"messages": out,
			"after":    after,
			"count":    len(out),
		})
	}
}
