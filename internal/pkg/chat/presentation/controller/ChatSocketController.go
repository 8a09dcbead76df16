package controller

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/20mouhcine/EmsiConnect/internal/infrastructure/auth"
	cacheport "github.com/20mouhcine/EmsiConnect/internal/infrastructure/cache/port"
	"github.com/20mouhcine/EmsiConnect/internal/infrastructure/realtime"
	"github.com/20mouhcine/EmsiConnect/internal/pkg/chat/application/event"
	"github.com/20mouhcine/EmsiConnect/internal/pkg/chat/application/usecase"
	repository "github.com/20mouhcine/EmsiConnect/internal/pkg/chat/persistence/repository/port"
)

const defaultReadTimeout = 60 * time.Second

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Browser origin enforcement is handled at the edge proxy.
		return true
	},
}

// ChatSocketController is the websocket gateway: it authenticates the
// connection attempt, checks room membership, and runs the session's receive
// loop. Both checks happen before the upgrade; a rejected client never sees a
// successful handshake, and an invalid credential is answered identically to
// a membership failure so room existence is not leaked.
type ChatSocketController struct {
	verifier        auth.Verifier
	rooms           *realtime.Registry
	sendMessageUC   *usecase.SendMessageUseCase
	markReadUC      *usecase.MarkReadUseCase
	joinRoomUC      *usecase.JoinConversationUseCase
	inflightTimeout time.Duration
}

func NewChatSocketController(repo repository.ChatRepository, cache cacheport.Cache, verifier auth.Verifier, rooms *realtime.Registry) *ChatSocketController {
	return &ChatSocketController{
		verifier:        verifier,
		rooms:           rooms,
		sendMessageUC:   usecase.NewSendMessageUseCase(repo),
		markReadUC:      usecase.NewMarkReadUseCase(repo),
		joinRoomUC:      usecase.NewJoinConversationUseCase(repo, cache),
		inflightTimeout: 5 * time.Second,
	}
}

// Handle admits websocket connections on /chat/:conversationId/ws?token=...
// and processes frames until the client disconnects.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, conversationID, ok := ctl.admit(c)
		if !ok {
			// Fail closed, one status for every rejection cause.
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just log and return.
			log.Printf("chat socket: upgrade failed: %v", err)
			return
		}

		roomKey := realtime.RoomKey(conversationID)
		session := realtime.NewSession(identity.UserID, roomKey, ws, func(s *realtime.Session) {
			ctl.rooms.Leave(roomKey, s)
		})
		ctl.rooms.Join(roomKey, session)
		session.Open()
		defer session.Close(websocket.CloseNormalClosure, "session closed")

		ws.SetReadLimit(1 << 20)
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		ctl.receiveLoop(ws, session, conversationID)
	}
}

// admit runs the authentication handshake: bearer token from the query
// string, then participant check against the conversation store.
func (ctl *ChatSocketController) admit(c *gin.Context) (auth.Identity, int64, bool) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	identity, err := ctl.verifier.Verify(ctx, c.Query("token"))
	if err != nil {
		return auth.Identity{}, 0, false
	}

	conversationID, err := strconv.ParseInt(c.Param("conversationId"), 10, 64)
	if err != nil || conversationID <= 0 {
		return auth.Identity{}, 0, false
	}

	if err := ctl.joinRoomUC.Execute(ctx, usecase.JoinConversationInput{
		ConversationID: conversationID,
		UserID:         identity.UserID,
	}); err != nil {
		// Non-participant and store failure both reject; the distinction is
		// only relevant to logs.
		if errors.Is(err, usecase.ErrPersistence) {
			log.Printf("chat socket: membership check failed: %v", err)
		}
		return auth.Identity{}, 0, false
	}

	return identity, conversationID, true
}

func (ctl *ChatSocketController) receiveLoop(ws *websocket.Conn, session *realtime.Session, conversationID int64) {
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			// Covers client close, network failure and read timeout alike;
			// the deferred Close drives the session to Closed.
			return
		}

		frame, err := event.ParseInbound(data)
		if err != nil {
			// Malformed frames are dropped without tearing down the shared
			// room connection.
			continue
		}

		switch frame.Type {
		case event.TypeSendMessage:
			ctl.handleSendMessage(session, conversationID, frame.Content)
		case event.TypeMarkRead:
			ctl.handleMarkRead(session, conversationID, frame.MessageID)
		default:
			// Unknown discriminators are ignored.
		}
	}
}

func (ctl *ChatSocketController) handleSendMessage(session *realtime.Session, conversationID int64, content string) {
	ctx, cancel := context.WithTimeout(context.Background(), ctl.inflightTimeout)
	defer cancel()

	msg, err := ctl.sendMessageUC.Execute(ctx, usecase.SendMessageInput{
		ConversationID: conversationID,
		SenderID:       session.UserID,
		Content:        content,
	})
	if err != nil {
		// Empty content is dropped silently; store failures are logged and
		// the session stays open.
		if errors.Is(err, usecase.ErrPersistence) {
			log.Printf("chat socket: send-message persist failed: %v", err)
		}
		return
	}

	payload, err := event.MessageCreated(*msg)
	if err != nil {
		log.Printf("chat socket: encode message-created: %v", err)
		return
	}
	// Membership is read at broadcast time; the sender receives the
	// server-confirmed copy through the same fan-out.
	ctl.rooms.Broadcast(session.RoomKey, payload)
}

func (ctl *ChatSocketController) handleMarkRead(session *realtime.Session, conversationID int64, messageID int64) {
	if messageID == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), ctl.inflightTimeout)
	defer cancel()

	_, err := ctl.markReadUC.Execute(ctx, usecase.MarkReadInput{
		ConversationID: conversationID,
		MessageID:      messageID,
		ReaderID:       session.UserID,
	})
	if err != nil {
		log.Printf("chat socket: mark-read failed: %v", err)
		return
	}

	// The receipt goes out whether or not a row changed.
	payload, err := event.ReadReceipt(messageID)
	if err != nil {
		log.Printf("chat socket: encode read-receipt: %v", err)
		return
	}
	ctl.rooms.Broadcast(session.RoomKey, payload)
}
