package repository

import (
	"context"
	"errors"
	"fmt"

	"asistente-fincas/internal/metrics"
	"asistente-fincas/internal/models"
	"asistente-fincas/pkg/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// DocumentRepository retrieves candidate documents through the database's
// vector search function. It does not own the index; the function name and
// column names are configuration because the corpus schema has shipped under
// more than one naming convention.
type DocumentRepository struct {
	db     *pgxpool.Pool
	cfg    *config.RAGConfig
	logger *zap.Logger
}

func NewDocumentRepository(db *pgxpool.Pool, cfg *config.RAGConfig, logger *zap.Logger) *DocumentRepository {
	return &DocumentRepository{
		db:     db,
		cfg:    cfg,
		logger: logger,
	}
}

// SearchSimilar asks the search function for 2*k candidates (over-fetch to
// tolerate rows with unusable embeddings) and returns the ones carrying a
// valid embedding. Zero rows is an empty slice, not an error; dropped rows
// are counted, not failed.
func (r *DocumentRepository) SearchSimilar(ctx context.Context, embedding []float32, k int) ([]models.Document, error) {
	query := fmt.Sprintf(
		"SELECT id::text, %s, %s, tabla_origen, tipo_origen FROM %s($1, $2)",
		r.cfg.ContentColumn, r.cfg.EmbeddingColumn, r.cfg.SearchFunction,
	)

	queryVector := pgtype.FlatArray[float32](embedding)
	rows, err := r.db.Query(ctx, query, queryVector, k*2)
	if err != nil {
		return nil, fmt.Errorf("search function %s: %w", r.cfg.SearchFunction, err)
	}
	defer rows.Close()

	var (
		documents []models.Document
		dropped   int
	)
	for rows.Next() {
		var (
			doc       models.Document
			docVector pgtype.FlatArray[float32]
		)
		if err := rows.Scan(&doc.ID, &doc.Content, &docVector, &doc.SourceTable, &doc.SourceKind); err != nil {
			return nil, fmt.Errorf("scan candidate row: %w", err)
		}

		doc.Embedding = []float32(docVector)
		if len(doc.Embedding) == 0 || len(doc.Embedding) != r.cfg.EmbeddingDimensions {
			dropped++
			metrics.IncInvalidDocument()
			r.logger.Debug("Dropping candidate without usable embedding",
				zap.String("id", doc.ID),
				zap.Int("dimensions", len(doc.Embedding)),
			)
			continue
		}
		documents = append(documents, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidate rows: %w", err)
	}

	if dropped > 0 {
		r.logger.Warn("Candidates dropped during retrieval filtering", zap.Int("dropped", dropped))
	}
	return documents, nil
}

// ProbeDimension samples one corpus embedding so startup can verify that the
// configured model dimension matches the stored vectors. A nil result means
// the corpus is empty, which is not an error.
func (r *DocumentRepository) ProbeDimension(ctx context.Context) (int, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s IS NOT NULL LIMIT 1",
		r.cfg.EmbeddingColumn, r.cfg.EmbeddingsTable, r.cfg.EmbeddingColumn,
	)

	var vector pgtype.FlatArray[float32]
	if err := r.db.QueryRow(ctx, query).Scan(&vector); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("probe corpus dimension: %w", err)
	}
	return len(vector), nil
}
