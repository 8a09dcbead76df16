package task

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	qport "github.com/20mouhcine/EmsiConnect/internal/infrastructure/queue/port"
	"github.com/20mouhcine/EmsiConnect/internal/infrastructure/realtime"
	chat "github.com/20mouhcine/EmsiConnect/internal/pkg/chat/application/domain"
	"github.com/20mouhcine/EmsiConnect/internal/pkg/chat/application/event"
	"github.com/20mouhcine/EmsiConnect/internal/pkg/chat/application/usecase"
	repository "github.com/20mouhcine/EmsiConnect/internal/pkg/chat/persistence/repository/port"
)

// SendMessageTaskType is the queue task name for sending a message within the chat domain.
const SendMessageTaskType = "chat:send_message"

// SendMessageTaskPayload is the JSON payload transported via the queue.
// Kept decoupled from domain types to avoid tight coupling with JSON tags.
type SendMessageTaskPayload struct {
	ConversationID int64  `json:"conversation_id"`
	SenderID       int64  `json:"sender_id"`
	Content        string `json:"content"`
}

// Broadcaster fans an encoded event out to a room. The realtime Registry
// satisfies it when the handler runs inside the API process; the standalone
// worker passes nil and only persists.
type Broadcaster interface {
	Broadcast(roomKey string, payload []byte) int
}

// RegisterSendMessageTask binds the queued-send handler to the provided
// server. The handler persists through the same use case as the websocket
// path and, when a broadcaster is available, echoes the stored message into
// the conversation's room.
func RegisterSendMessageTask(srv qport.Server, repo repository.ChatRepository, rooms Broadcaster) {
	uc := usecase.NewSendMessageUseCase(repo)

	srv.Register(SendMessageTaskType, func(ctx context.Context, t qport.Task) error {
		var p SendMessageTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: retrying will not help
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		msg, err := uc.Execute(ctx, usecase.SendMessageInput{
			ConversationID: p.ConversationID,
			SenderID:       p.SenderID,
			Content:        p.Content,
		})
		switch {
		case errors.Is(err, chat.ErrEmptyMessage), errors.Is(err, chat.ErrNotParticipant):
			// Domain rejections will not change on retry; drop the task.
			log.Printf("send-message task dropped: %v", err)
			return nil
		case err != nil:
			// Retry/backoff policy is controlled by the queue server.
			return err
		}

		if rooms != nil {
			payload, err := event.MessageCreated(*msg)
			if err != nil {
				log.Printf("send-message task: encode broadcast: %v", err)
				return nil
			}
			rooms.Broadcast(realtime.RoomKey(msg.ConversationID), payload)
		}
		return nil
	})
}
