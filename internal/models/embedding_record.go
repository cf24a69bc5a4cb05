package models

import "time"

// EmbeddingRecord is a corpus row ready to be written to the embeddings
// table by the ingestion pipeline.
type EmbeddingRecord struct {
	ID           string    `json:"id"`
	Content      string    `json:"contenido"`
	Embedding    []float32 `json:"embedding_vector"`
	SourceTable  string    `json:"tabla_origen"`
	SourceKind   string    `json:"tipo_origen"`
	VectorizedAt time.Time `json:"vectorizado_en"`
}
