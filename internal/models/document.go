package models

// Document is a retrieval candidate coming back from the vector search
// function. It lives for the duration of one request and is never cached.
type Document struct {
	ID          string    `db:"id"`
	Content     string    `db:"contenido"`
	Embedding   []float32 `db:"embedding_vector"`
	SourceTable string    `db:"tabla_origen"`
	SourceKind  string    `db:"tipo_origen"`
}

// ScoredDocument pairs a candidate with its cosine similarity against the
// query embedding. Used only while ranking.
type ScoredDocument struct {
	Document Document
	Score    float64
}
