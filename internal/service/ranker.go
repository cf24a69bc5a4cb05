package service

import (
	"math"
	"sort"

	"asistente-fincas/internal/metrics"
	"asistente-fincas/internal/models"
)

// SimilarityRanker re-ranks retrieval candidates by cosine similarity against
// the query embedding.
type SimilarityRanker struct{}

func NewSimilarityRanker() *SimilarityRanker {
	return &SimilarityRanker{}
}

// Rank scores every candidate and returns at most k documents in descending
// score order. The sort is stable, so equal scores keep their retrieval order
// and results stay deterministic.
func (r *SimilarityRanker) Rank(query []float32, candidates []models.Document, k int) []models.Document {
	scored := make([]models.ScoredDocument, 0, len(candidates))
	for _, doc := range candidates {
		score := CosineSimilarity(query, doc.Embedding)
		metrics.ObserveSimilarity(score)
		scored = append(scored, models.ScoredDocument{Document: doc, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	top := make([]models.Document, 0, k)
	for _, sd := range scored[:k] {
		top = append(top, sd.Document)
	}
	return top
}

// CosineSimilarity returns the cosine of the angle between a and b, in
// [-1, 1]. A zero-norm vector or a length mismatch yields exactly 0.0 rather
// than an error.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
