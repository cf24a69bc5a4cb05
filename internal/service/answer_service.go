package service

import (
	"context"
	"errors"
	"fmt"

	"asistente-fincas/internal/cache"
	"asistente-fincas/internal/metrics"
	"asistente-fincas/internal/models"
	"asistente-fincas/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Retriever fetches candidate documents for a query embedding.
type Retriever interface {
	SearchSimilar(ctx context.Context, embedding []float32, k int) ([]models.Document, error)
}

// Generator produces a grounded answer from a question and its context.
type Generator interface {
	Generate(ctx context.Context, question, contexto string) (string, error)
}

// AnswerService orchestrates the full question-answering pipeline:
// normalize, cache lookup, embed, retrieve, rank, assemble, generate, cache
// write. Answer never returns an error; every failure collapses into one of
// two fixed user-safe messages while the underlying cause stays in the logs,
// keyed by a per-request trace id.
type AnswerService struct {
	normalizer *TextNormalizer
	embedder   Embedder
	retriever  Retriever
	ranker     *SimilarityRanker
	assembler  *ContextAssembler
	generator  Generator
	cache      *cache.ResponseCache
	topK       int
	logger     *zap.Logger
}

func NewAnswerService(
	cfg *config.RAGConfig,
	embedder Embedder,
	retriever Retriever,
	generator Generator,
	responseCache *cache.ResponseCache,
	logger *zap.Logger,
) *AnswerService {
	return &AnswerService{
		normalizer: NewTextNormalizer(cfg.MaxQuestionLength),
		embedder:   embedder,
		retriever:  retriever,
		ranker:     NewSimilarityRanker(),
		assembler:  NewContextAssembler(cfg.MaxContextWords),
		generator:  generator,
		cache:      responseCache,
		topK:       cfg.TopK,
		logger:     logger,
	}
}

// Answer resolves a user question into a grounded answer or a fallback
// message. userID is carried for log correlation only.
func (s *AnswerService) Answer(ctx context.Context, question, userID string) string {
	traceID := uuid.New().String()[:8]

	question = s.normalizer.Normalize(question)
	if question == "" {
		s.logger.Info("Rejecting empty question after sanitization",
			zap.String("trace_id", traceID),
			zap.String("user_id", userID),
		)
		return MsgInvalidQuestion
	}

	s.logger.Info("Processing question",
		zap.String("trace_id", traceID),
		zap.String("user_id", userID),
	)

	if answer, ok := s.cache.Get(question); ok {
		metrics.IncCacheHit()
		s.logger.Info("Answer served from cache", zap.String("trace_id", traceID))
		return answer
	}

	contexto, err := s.buildContext(ctx, question)
	if err != nil {
		s.logger.Error("Context retrieval failed",
			zap.String("trace_id", traceID),
			zap.String("stage", stageOf(err)),
			zap.Error(err),
		)
		return MsgProcessingError
	}

	answer, err := s.generator.Generate(ctx, question, contexto)
	if err != nil {
		s.logger.Error("Answer generation failed",
			zap.String("trace_id", traceID),
			zap.String("stage", stageOf(err)),
			zap.Error(err),
		)
		return MsgProcessingError
	}

	s.cache.Put(question, answer)
	s.logger.Info("Answer generated", zap.String("trace_id", traceID))
	return answer
}

// stageOf maps a pipeline error to the stage name used in logs, keeping the
// distinct failure kinds diagnosable even though users see one message.
func stageOf(err error) string {
	switch {
	case errors.Is(err, ErrEmbedding), errors.Is(err, ErrDimensionMismatch):
		return "embedding"
	case errors.Is(err, ErrCircuitOpen):
		return "circuit-open"
	case errors.Is(err, ErrGeneration):
		return "generation"
	default:
		return "retrieval"
	}
}

// buildContext runs embed, retrieve, rank and assemble. An empty context is a
// valid outcome, meaning no relevant documents were found.
func (s *AnswerService) buildContext(ctx context.Context, question string) (string, error) {
	embedding, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return "", err
	}

	candidates, err := s.retriever.SearchSimilar(ctx, embedding, s.topK)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRetrieval, err)
	}
	if len(candidates) == 0 {
		s.logger.Warn("No relevant documents found for question")
		return "", nil
	}

	top := s.ranker.Rank(embedding, candidates, s.topK)
	return s.assembler.Assemble(top), nil
}
