package http

import (
	"github.com/gin-gonic/gin"

	"github.com/20mouhcine/EmsiConnect/internal/infrastructure/auth"
	cacheport "github.com/20mouhcine/EmsiConnect/internal/infrastructure/cache/port"
	qport "github.com/20mouhcine/EmsiConnect/internal/infrastructure/queue/port"
	"github.com/20mouhcine/EmsiConnect/internal/infrastructure/realtime"
	"github.com/20mouhcine/EmsiConnect/internal/pkg/chat/presentation/controller"
	repository "github.com/20mouhcine/EmsiConnect/internal/pkg/chat/persistence/repository/port"
)

// Deps bundles the collaborators the chat endpoints need.
type Deps struct {
	Repo     repository.ChatRepository
	Cache    cacheport.Cache // optional
	Queue    qport.Client
	Rooms    *realtime.Registry
	Verifier auth.Verifier
}

// RegisterRoutes registers chat-related endpoints under the given router group.
// It constructs per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(g *gin.RouterGroup, d Deps) {
	createCtl := controller.NewCreateChatController(d.Repo)
	sendMsgCtl := controller.NewSendMessageController(d.Queue)
	getMsgCtl := controller.NewGetMessageController(d.Repo, d.Cache)
	participantsCtl := controller.NewListParticipantsController(d.Repo, d.Cache)
	socketCtl := controller.NewChatSocketController(d.Repo, d.Cache, d.Verifier, d.Rooms)

	// The socket runs its own credential handshake; REST goes through the
	// auth middleware.
	g.GET("/chat/:conversationId/ws", socketCtl.Handle())

	authed := g.Group("", AuthRequired(d.Verifier))

	// POST /api/v1/chat -> open a conversation
	authed.POST("/chat", createCtl.Handle())

	// POST /api/v1/chat/:conversationId -> queue a message into a conversation
	authed.POST("/chat/:conversationId", sendMsgCtl.Handle())

	// GET /api/v1/chat/:conversationId/messages?after=<id> -> catch-up query
	authed.GET("/chat/:conversationId/messages", getMsgCtl.Handle())

	// GET /api/v1/chat/:conversationId/participants -> member list
	authed.GET("/chat/:conversationId/participants", participantsCtl.Handle())
}
