package repository

import (
	"context"
	"fmt"

	"asistente-fincas/internal/models"
	"asistente-fincas/pkg/config"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// SourceRepository feeds the ingestion pipeline: it pages through the source
// tables and writes finished embedding records into the embeddings table.
type SourceRepository struct {
	db     *pgxpool.Pool
	cfg    *config.RAGConfig
	logger *zap.Logger
}

func NewSourceRepository(db *pgxpool.Pool, cfg *config.RAGConfig, logger *zap.Logger) *SourceRepository {
	return &SourceRepository{
		db:     db,
		cfg:    cfg,
		logger: logger,
	}
}

// LoadPage returns one page of rows from a source table as generic column
// maps, so per-table templating stays out of the SQL layer. An empty page
// signals the end of the table.
func (r *SourceRepository) LoadPage(ctx context.Context, table string, page, pageSize int) ([]map[string]any, error) {
	query := squirrel.Select("*").
		From(table).
		OrderBy("id").
		Limit(uint64(pageSize)).
		Offset(uint64(page * pageSize)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("load page from %s: %w", table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var result []map[string]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row from %s: %w", table, err)
		}
		row := make(map[string]any, len(fields))
		for i, fd := range fields {
			row[string(fd.Name)] = values[i]
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// SaveBatch inserts a batch of embedding records into the embeddings table.
func (r *SourceRepository) SaveBatch(ctx context.Context, records []models.EmbeddingRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := squirrel.Insert(r.cfg.EmbeddingsTable).
		Columns("id", r.cfg.ContentColumn, r.cfg.EmbeddingColumn, "tabla_origen", "tipo_origen", "vectorizado_en").
		PlaceholderFormat(squirrel.Dollar)

	for _, rec := range records {
		query = query.Values(
			rec.ID,
			rec.Content,
			pgtype.FlatArray[float32](rec.Embedding),
			rec.SourceTable,
			rec.SourceKind,
			rec.VectorizedAt,
		)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert batch into %s: %w", r.cfg.EmbeddingsTable, err)
	}
	return nil
}
