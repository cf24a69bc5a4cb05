package service

import (
	"context"
	"fmt"

	"asistente-fincas/internal/metrics"
	"asistente-fincas/pkg/config"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"go.uber.org/zap"
)

// Embedder converts text into fixed-dimension dense vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// OpenAIEmbedder generates embeddings through the OpenAI embeddings API. It
// does not retry and does not cache individual embeddings; it validates that
// every returned vector matches the configured corpus dimension and fails
// fast otherwise.
type OpenAIEmbedder struct {
	client openai.Client
	cfg    *config.RAGConfig
	logger *zap.Logger
}

func NewOpenAIEmbedder(openaiCfg *config.OpenAIConfig, ragCfg *config.RAGConfig, logger *zap.Logger) *OpenAIEmbedder {
	opts := []option.RequestOption{option.WithAPIKey(openaiCfg.APIKey)}
	if openaiCfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(openaiCfg.BaseURL))
	}
	return &OpenAIEmbedder{
		client: openai.NewClient(opts...),
		cfg:    ragCfg,
		logger: logger,
	}
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(e.cfg.EmbeddingModel),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d", ErrEmbedding, len(texts), len(resp.Data))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, item := range resp.Data {
		if len(item.Embedding) != e.cfg.EmbeddingDimensions {
			return nil, fmt.Errorf("%w: model %q returned %d dimensions, corpus uses %d",
				ErrDimensionMismatch, e.cfg.EmbeddingModel, len(item.Embedding), e.cfg.EmbeddingDimensions)
		}
		vec := make([]float32, len(item.Embedding))
		for j, v := range item.Embedding {
			vec[j] = float32(v)
		}
		vectors[i] = vec
	}

	metrics.AddEmbeddings(len(vectors))
	e.logger.Debug("Embeddings generated",
		zap.Int("count", len(vectors)),
		zap.String("model", e.cfg.EmbeddingModel),
	)
	return vectors, nil
}
