package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/20mouhcine/EmsiConnect/internal/pkg/chat/application/usecase"
	"github.com/20mouhcine/EmsiConnect/internal/pkg/chat/presentation/identity"
	repository "github.com/20mouhcine/EmsiConnect/internal/pkg/chat/persistence/repository/port"
)

// CreateChatController handles the conversation creation endpoint.
// One controller per endpoint.
type CreateChatController struct {
	UC *usecase.CreateChatUseCase
}

func NewCreateChatController(repo repository.ChatRepository) *CreateChatController {
	return &CreateChatController{UC: usecase.NewCreateChatUseCase(repo)}
}

type createChatRequest struct {
	ParticipantIDs []int64 `json:"participant_ids" binding:"required"`
}

func (h *CreateChatController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// The caller is always part of the conversation they open.
		caller := identity.FromContext(c)
		ids := append([]int64{caller.UserID}, req.ParticipantIDs...)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		conv, err := h.UC.Execute(ctx, usecase.CreateChatInput{ParticipantIDs: ids})
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"id":         conv.ID,
			"created_at": conv.CreatedAt,
		})
	}
}
