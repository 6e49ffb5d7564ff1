package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BhattAnsh/KnowZ/internal/api"
	"github.com/BhattAnsh/KnowZ/internal/cache"
	"github.com/BhattAnsh/KnowZ/internal/config"
	"github.com/BhattAnsh/KnowZ/internal/conversation"
	"github.com/BhattAnsh/KnowZ/internal/db"
	"github.com/BhattAnsh/KnowZ/internal/matching"
	"github.com/BhattAnsh/KnowZ/internal/middleware"
	"github.com/BhattAnsh/KnowZ/internal/observ"
	"github.com/BhattAnsh/KnowZ/internal/repository/postgres"
	"github.com/BhattAnsh/KnowZ/internal/swipe"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	// Startup has no deadline to inherit; Background() is the root.
	database, err := db.New(context.Background(), cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()

	ranks, err := cache.NewRankCache(cfg.RedisURL, logger)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer ranks.Close()

	// Repositories share one pool; the pool is goroutine-safe.
	pool := database.Pool()
	userRepo := postgres.NewUserStore(pool)
	graphRepo := postgres.NewSkillGraphStore(pool)
	swipeRepo := postgres.NewSwipeStore(pool)
	messageRepo := postgres.NewMessageStore(pool)

	scorer := matching.NewScorer(graphRepo, ranks, logger)
	ledger := swipe.NewLedger(swipeRepo, userRepo, messageRepo, logger)
	guard := conversation.NewGuard(swipeRepo, messageRepo, logger)

	authHandler := api.NewAuthHandler(userRepo, graphRepo, cfg.JWTSecret, logger)
	profileHandler := api.NewProfileHandler(userRepo, graphRepo, ranks, logger)
	skillHandler := api.NewSkillHandler(graphRepo, ranks, logger)
	matchHandler := api.NewMatchHandler(scorer, ledger, logger)
	swipeHandler := api.NewSwipeHandler(ledger, logger)
	messageHandler := api.NewMessageHandler(guard, logger)

	srv := gin.New()
	srv.Use(gin.Logger(), gin.Recovery())

	// Public endpoints: no token exists yet at register/login time, and
	// load balancers need /health without credentials.
	srv.POST("/register", authHandler.Register)
	srv.POST("/login", authHandler.Login)
	srv.GET("/health", func(c *gin.Context) {
		status := "connected"
		if err := database.Health(c.Request.Context()); err != nil {
			status = "disconnected"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"database": status,
		})
	})

	authed := srv.Group("/")
	authed.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		authed.GET("/profile", profileHandler.Get)
		authed.PUT("/profile", profileHandler.Update)
		authed.POST("/add-skill", skillHandler.Add)
		authed.POST("/remove-skill", skillHandler.Remove)

		authed.POST("/predict", matchHandler.Predict)
		authed.POST("/swipe", swipeHandler.Record)
		authed.GET("/matches", matchHandler.Matches)
		authed.POST("/pending-matches", matchHandler.PendingMatches)

		authed.GET("/messages/:peer_id", messageHandler.List)
		authed.POST("/messages/send", messageHandler.Send)
	}

	logger.Info("starting KnowZ API",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
	)

	return srv.Run(":" + cfg.Port)
}
