package service

import (
	"testing"

	"asistente-fincas/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity_Bounds(t *testing.T) {
	pairs := [][2][]float32{
		{{1, 0}, {0, 1}},
		{{1, 2, 3}, {-1, -2, -3}},
		{{0.5, 0.5}, {0.5, 0.5}},
		{{1, -1}, {2, 5}},
	}
	for _, p := range pairs {
		score := CosineSimilarity(p[0], p[1])
		assert.GreaterOrEqual(t, score, -1.0000001)
		assert.LessOrEqual(t, score, 1.0000001)
	}
}

func TestCosineSimilarity_SelfIsOne(t *testing.T) {
	v := []float32{0.3, -0.7, 1.2}
	assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
}

func TestCosineSimilarity_ZeroNormIsExactlyZero(t *testing.T) {
	assert.Equal(t, 0.0, CosineSimilarity([]float32{0, 0}, []float32{1, 1}))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1, 1}, []float32{0, 0}))
}

func TestCosineSimilarity_LengthMismatchIsZero(t *testing.T) {
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}))
}

func TestRank_OrdersByScoreDescending(t *testing.T) {
	// Query aligned with the x axis; candidate angles produce scores of
	// roughly 0.9, 0.2 and 0.95 in retrieval order.
	query := []float32{1, 0}
	candidates := []models.Document{
		{ID: "a", Embedding: []float32{0.9, 0.4359}},
		{ID: "b", Embedding: []float32{0.2, 0.9798}},
		{ID: "c", Embedding: []float32{0.95, 0.3122}},
	}

	top := NewSimilarityRanker().Rank(query, candidates, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "c", top[0].ID)
	assert.Equal(t, "a", top[1].ID)
}

func TestRank_TiesKeepRetrievalOrder(t *testing.T) {
	query := []float32{1, 0}
	candidates := []models.Document{
		{ID: "first", Embedding: []float32{2, 0}},
		{ID: "second", Embedding: []float32{3, 0}},
		{ID: "third", Embedding: []float32{4, 0}},
	}

	top := NewSimilarityRanker().Rank(query, candidates, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "first", top[0].ID)
	assert.Equal(t, "second", top[1].ID)
	assert.Equal(t, "third", top[2].ID)
}

func TestRank_FewerCandidatesThanK(t *testing.T) {
	query := []float32{1, 0}
	candidates := []models.Document{
		{ID: "only", Embedding: []float32{1, 1}},
	}

	top := NewSimilarityRanker().Rank(query, candidates, 5)
	require.Len(t, top, 1)
	assert.Equal(t, "only", top[0].ID)
}
