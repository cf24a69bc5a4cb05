package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"asistente-fincas/internal/api"
	"asistente-fincas/internal/api/handlers"
	"asistente-fincas/internal/breaker"
	"asistente-fincas/internal/cache"
	"asistente-fincas/internal/metrics"
	"asistente-fincas/internal/repository"
	"asistente-fincas/internal/service"
	"asistente-fincas/pkg/auth"
	"asistente-fincas/pkg/config"
	"asistente-fincas/pkg/logger"
	"asistente-fincas/pkg/postgres"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting asistente-fincas service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	docRepo := repository.NewDocumentRepository(db, &cfg.RAG, appLogger)

	// The corpus and the configured embedding model must agree on dimension;
	// refusing to start beats silently meaningless similarity scores.
	if dims, err := docRepo.ProbeDimension(ctx); err != nil {
		appLogger.Fatal("Failed to probe corpus embedding dimension", zap.Error(err))
	} else if dims != 0 && dims != cfg.RAG.EmbeddingDimensions {
		appLogger.Fatal("Corpus embedding dimension does not match configuration",
			zap.Int("corpus", dims),
			zap.Int("configured", cfg.RAG.EmbeddingDimensions),
		)
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, appLogger)

	embedder := service.NewOpenAIEmbedder(&cfg.OpenAI, &cfg.RAG, appLogger)
	completionClient := service.NewOpenAICompletionClient(&cfg.OpenAI, cfg.RAG.CompletionModel)
	brk := breaker.New(cfg.RAG.CircuitFailureThreshold, cfg.RAG.CircuitRecoveryTimeout)
	generator := service.NewAnswerGenerator(completionClient, brk, cfg.RAG.RequestTimeout, appLogger)
	responseCache := cache.NewResponseCache(cfg.RAG.CacheCapacity, cfg.RAG.CacheTTL)

	answerService := service.NewAnswerService(&cfg.RAG, embedder, docRepo, generator, responseCache, appLogger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, appLogger)
	preguntaHandler := handlers.NewPreguntaHandler(answerService, appLogger)

	// Setup router
	app := api.SetupRouter(authHandler, preguntaHandler, jwtManager, appLogger)

	// Metrics on a side port
	go func() {
		appLogger.Info("Metrics listener starting", zap.String("port", cfg.Metrics.Port))
		if err := metrics.Serve(cfg.Metrics.Port); err != nil {
			appLogger.Error("Metrics listener failed", zap.Error(err))
		}
	}()

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
