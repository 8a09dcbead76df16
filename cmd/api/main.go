package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	v1 "github.com/20mouhcine/EmsiConnect/cmd/api/router/v1"
	"github.com/20mouhcine/EmsiConnect/internal/infrastructure/auth"
	cacheadapter "github.com/20mouhcine/EmsiConnect/internal/infrastructure/cache/adapter"
	cacheport "github.com/20mouhcine/EmsiConnect/internal/infrastructure/cache/port"
	"github.com/20mouhcine/EmsiConnect/internal/infrastructure/config"
	"github.com/20mouhcine/EmsiConnect/internal/infrastructure/database"
	queueadapter "github.com/20mouhcine/EmsiConnect/internal/infrastructure/queue/adapter"
	"github.com/20mouhcine/EmsiConnect/internal/infrastructure/realtime"
	"github.com/20mouhcine/EmsiConnect/internal/pkg/chat/application/task"
	chatrepo "github.com/20mouhcine/EmsiConnect/internal/pkg/chat/persistence/repository/adapter"
	httpHandler "github.com/20mouhcine/EmsiConnect/internal/pkg/chat/presentation/http"
	useradapter "github.com/20mouhcine/EmsiConnect/internal/repository/adapter"
)

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

	// The cache is an optimization; the service runs without it.
	var cache cacheport.Cache
	if c, err := cacheadapter.NewRedisCache(cfg.RedisURL); err != nil {
		log.Printf("Warning: redis unavailable, membership cache disabled: %v", err)
	} else {
		cache = c
		defer c.Close()
	}

	repo := chatrepo.NewPgChatRepository(pool)
	users := useradapter.NewPgUserRepository(pool)
	verifier := auth.NewJWTVerifier(cfg.JWTSecret, users)
	rooms := realtime.NewRegistry()

	queueClient, err := queueadapter.NewAsynqClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to create queue client: %v", err)
	}
	defer queueClient.Close()

	// Run the worker in-process so queued sends are picked up (and broadcast)
	// without a separate deployment.
	queueServer, err := queueadapter.NewAsynqServer(cfg.RedisURL, cfg.AsynqConcurrency, cfg.AsynqQueues)
	if err != nil {
		log.Fatalf("failed to create queue server: %v", err)
	}
	task.RegisterSendMessageTask(queueServer, repo, rooms)
	go func() {
		if err := queueServer.Run(ctx); err != nil {
			log.Printf("queue server stopped: %v", err)
		}
	}()

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	v1.RegisterRoutes(r, httpHandler.Deps{
		Repo:     repo,
		Cache:    cache,
		Queue:    queueClient,
		Rooms:    rooms,
		Verifier: verifier,
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: r}
	go func() {
		log.Printf("listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
