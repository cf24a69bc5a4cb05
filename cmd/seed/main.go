package main

import (
	"context"
	"log"

	"asistente-fincas/internal/repository"
	"asistente-fincas/internal/service"
	"asistente-fincas/pkg/config"
	"asistente-fincas/pkg/logger"
	"asistente-fincas/pkg/postgres"

	"go.uber.org/zap"
)

// seed rebuilds the embeddings corpus from the source tables.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	sourceRepo := repository.NewSourceRepository(db, &cfg.RAG, appLogger)
	embedder := service.NewOpenAIEmbedder(&cfg.OpenAI, &cfg.RAG, appLogger)
	ingest := service.NewIngestService(sourceRepo, embedder, &cfg.Ingest, appLogger)

	appLogger.Info("Starting corpus ingestion",
		zap.Strings("tables", cfg.Ingest.SourceTables),
		zap.String("model", cfg.RAG.EmbeddingModel),
	)

	written, err := ingest.Run(ctx)
	if err != nil {
		appLogger.Fatal("Ingestion failed", zap.Int("written", written), zap.Error(err))
	}

	appLogger.Info("Ingestion completed", zap.Int("written", written))
}
