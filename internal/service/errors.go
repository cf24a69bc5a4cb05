package service

import "errors"

// Internal failure taxonomy. Everything below the orchestrator propagates one
// of these (wrapped); the orchestrator collapses them into a single generic
// user message while keeping the kinds apart in logs.
var (
	ErrInvalidInput      = errors.New("empty question after sanitization")
	ErrEmbedding         = errors.New("embedding service failure")
	ErrRetrieval         = errors.New("vector search failure")
	ErrGeneration        = errors.New("answer generation failure")
	ErrCircuitOpen       = errors.New("completion model circuit open")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// User-facing fallback messages. These are the only two strings a caller ever
// sees besides a grounded answer.
const (
	MsgInvalidQuestion = "Por favor, formula una pregunta válida."
	MsgProcessingError = "Hubo un problema al procesar tu solicitud. Intenta más tarde."
)
