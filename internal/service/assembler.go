package service

import (
	"strings"

	"asistente-fincas/internal/metrics"
	"asistente-fincas/internal/models"
)

// ContextAssembler concatenates ranked documents into the single context
// string fed to the completion model, bounded by a word budget.
type ContextAssembler struct {
	maxWords int
}

func NewContextAssembler(maxWords int) *ContextAssembler {
	if maxWords <= 0 {
		maxWords = 1500
	}
	return &ContextAssembler{maxWords: maxWords}
}

// Assemble joins document contents with a blank-line separator in rank order
// and truncates to the first maxWords whitespace-delimited words. An empty
// document list yields the empty string, the "no context available" signal.
func (a *ContextAssembler) Assemble(documents []models.Document) string {
	if len(documents) == 0 {
		return ""
	}

	parts := make([]string, 0, len(documents))
	for _, doc := range documents {
		parts = append(parts, doc.Content)
	}
	context := strings.Join(parts, "\n\n")

	words := strings.Fields(context)
	if len(words) > a.maxWords {
		context = strings.Join(words[:a.maxWords], " ")
		metrics.ObserveContextLength(a.maxWords)
		return context
	}

	metrics.ObserveContextLength(len(words))
	return context
}
