package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/20mouhcine/EmsiConnect/internal/infrastructure/config"
	"github.com/20mouhcine/EmsiConnect/internal/infrastructure/database"
	queueadapter "github.com/20mouhcine/EmsiConnect/internal/infrastructure/queue/adapter"
	"github.com/20mouhcine/EmsiConnect/internal/pkg/chat/application/task"
	chatrepo "github.com/20mouhcine/EmsiConnect/internal/pkg/chat/persistence/repository/adapter"
)

// Standalone queue worker. It persists queued sends but cannot broadcast:
// room membership lives in the API process, so connected clients there pick
// up persisted messages through the catch-up query on reconnect.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	pool, err := database.Connect(connectCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	srv, err := queueadapter.NewAsynqServer(cfg.RedisURL, cfg.AsynqConcurrency, cfg.AsynqQueues)
	if err != nil {
		log.Fatalf("failed to create queue server: %v", err)
	}
	task.RegisterSendMessageTask(srv, chatrepo.NewPgChatRepository(pool), nil)

	log.Println("worker started")
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("worker stopped: %v", err)
	}
}
