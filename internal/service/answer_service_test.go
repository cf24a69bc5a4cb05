package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"asistente-fincas/internal/breaker"
	"asistente-fincas/internal/cache"
	"asistente-fincas/internal/models"
	"asistente-fincas/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeEmbedder struct {
	calls  int
	vector []float32
	err    error
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for range texts {
		v, err := f.Embed(context.Background(), "")
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type fakeRetriever struct {
	calls int
	docs  []models.Document
	err   error
}

func (f *fakeRetriever) SearchSimilar(_ context.Context, _ []float32, _ int) ([]models.Document, error) {
	f.calls++
	return f.docs, f.err
}

func ragTestConfig() *config.RAGConfig {
	return &config.RAGConfig{
		TopK:              3,
		MaxContextWords:   1500,
		MaxQuestionLength: 500,
	}
}

// echoGenerator is a completion client whose answer is the full prompt,
// letting tests assert that retrieved content reaches the model.
func echoGenerator() *AnswerGenerator {
	return NewAnswerGenerator(&fakeCompletionClient{}, breaker.New(3, time.Minute), time.Second, zap.NewNop())
}

func TestAnswer_EmptyQuestionSkipsPipeline(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{1, 0}}
	retriever := &fakeRetriever{}
	svc := NewAnswerService(ragTestConfig(), embedder, retriever, echoGenerator(),
		cache.NewResponseCache(16, time.Hour), zap.NewNop())

	got := svc.Answer(context.Background(), "   !!! ", "user-1")
	assert.Equal(t, MsgInvalidQuestion, got)
	assert.Equal(t, 0, embedder.calls)
	assert.Equal(t, 0, retriever.calls)
}

func TestAnswer_GroundsOnRetrievedDocuments(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{1, 0}}
	retriever := &fakeRetriever{docs: []models.Document{
		{ID: "1", Content: "El portero atiende en el teléfono 555-1234.", Embedding: []float32{0.99, 0.1}},
		{ID: "2", Content: "La piscina abre en junio.", Embedding: []float32{0.1, 0.99}},
	}}
	svc := NewAnswerService(ragTestConfig(), embedder, retriever, echoGenerator(),
		cache.NewResponseCache(16, time.Hour), zap.NewNop())

	got := svc.Answer(context.Background(), "¿Cómo puedo contactar al portero?", "user-1")
	assert.True(t, strings.Contains(got, "555-1234"))
	assert.True(t, strings.Contains(got, "¿Cómo puedo contactar al portero?"))
}

func TestAnswer_CacheShortCircuitsRepeatQuestion(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{1, 0}}
	retriever := &fakeRetriever{docs: []models.Document{
		{ID: "1", Content: "contenido", Embedding: []float32{1, 0}},
	}}
	svc := NewAnswerService(ragTestConfig(), embedder, retriever, echoGenerator(),
		cache.NewResponseCache(16, time.Hour), zap.NewNop())

	first := svc.Answer(context.Background(), "¿Cuándo es la junta?", "user-1")
	second := svc.Answer(context.Background(), "¿Cuándo es la junta?", "user-1")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, embedder.calls)
	assert.Equal(t, 1, retriever.calls)
}

func TestAnswer_NormalizedVariantsShareCacheEntry(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{1, 0}}
	retriever := &fakeRetriever{docs: []models.Document{
		{ID: "1", Content: "contenido", Embedding: []float32{1, 0}},
	}}
	svc := NewAnswerService(ragTestConfig(), embedder, retriever, echoGenerator(),
		cache.NewResponseCache(16, time.Hour), zap.NewNop())

	_ = svc.Answer(context.Background(), "¿Cuándo es la junta?", "user-1")
	_ = svc.Answer(context.Background(), "  ¿Cuándo es la junta?!! ", "user-1")

	assert.Equal(t, 1, embedder.calls)
}

func TestAnswer_EmbeddingFailureYieldsGenericMessage(t *testing.T) {
	embedder := &fakeEmbedder{err: ErrEmbedding}
	retriever := &fakeRetriever{}
	svc := NewAnswerService(ragTestConfig(), embedder, retriever, echoGenerator(),
		cache.NewResponseCache(16, time.Hour), zap.NewNop())

	got := svc.Answer(context.Background(), "¿Cuándo es la junta?", "user-1")
	assert.Equal(t, MsgProcessingError, got)
	assert.Equal(t, 0, retriever.calls)
}

func TestAnswer_RetrievalFailureYieldsGenericMessage(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{1, 0}}
	retriever := &fakeRetriever{err: errors.New("connection refused")}
	svc := NewAnswerService(ragTestConfig(), embedder, retriever, echoGenerator(),
		cache.NewResponseCache(16, time.Hour), zap.NewNop())

	got := svc.Answer(context.Background(), "¿Cuándo es la junta?", "user-1")
	assert.Equal(t, MsgProcessingError, got)
}

func TestAnswer_GenerationFailureIsNotCached(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{1, 0}}
	retriever := &fakeRetriever{docs: []models.Document{
		{ID: "1", Content: "contenido", Embedding: []float32{1, 0}},
	}}
	failing := NewAnswerGenerator(
		&fakeCompletionClient{err: errors.New("upstream down")},
		breaker.New(3, time.Minute), time.Second, zap.NewNop())
	svc := NewAnswerService(ragTestConfig(), embedder, retriever, failing,
		cache.NewResponseCache(16, time.Hour), zap.NewNop())

	got := svc.Answer(context.Background(), "¿Cuándo es la junta?", "user-1")
	require.Equal(t, MsgProcessingError, got)

	// A second attempt goes through the full pipeline again.
	_ = svc.Answer(context.Background(), "¿Cuándo es la junta?", "user-1")
	assert.Equal(t, 2, embedder.calls)
}

func TestAnswer_NoCandidatesStillAnswers(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{1, 0}}
	retriever := &fakeRetriever{docs: nil}
	svc := NewAnswerService(ragTestConfig(), embedder, retriever, echoGenerator(),
		cache.NewResponseCache(16, time.Hour), zap.NewNop())

	got := svc.Answer(context.Background(), "¿Cuándo es la junta?", "user-1")
	assert.NotEqual(t, MsgProcessingError, got)
	assert.True(t, strings.Contains(got, "¿Cuándo es la junta?"))
}
