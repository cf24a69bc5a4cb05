package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"asistente-fincas/internal/models"
	"asistente-fincas/internal/repository"
	"asistente-fincas/pkg/config"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// IngestService rebuilds the embeddings corpus from the source tables: page
// through each table, template rows into plain text, embed in batches and
// write the records to the embeddings table. Batches that exhaust their
// retries are appended to a JSON fallback file instead of aborting the run.
type IngestService struct {
	sourceRepo *repository.SourceRepository
	embedder   Embedder
	cfg        *config.IngestConfig
	logger     *zap.Logger
}

func NewIngestService(sourceRepo *repository.SourceRepository, embedder Embedder, cfg *config.IngestConfig, logger *zap.Logger) *IngestService {
	return &IngestService{
		sourceRepo: sourceRepo,
		embedder:   embedder,
		cfg:        cfg,
		logger:     logger,
	}
}

// Run processes every configured source table and returns the number of
// records written.
func (s *IngestService) Run(ctx context.Context) (int, error) {
	total := 0
	for _, table := range s.cfg.SourceTables {
		n, err := s.ingestTable(ctx, table)
		if err != nil {
			return total, fmt.Errorf("ingest table %s: %w", table, err)
		}
		total += n
	}
	return total, nil
}

func (s *IngestService) ingestTable(ctx context.Context, table string) (int, error) {
	written := 0
	invalid := 0

	for page := 0; ; page++ {
		rows, err := s.sourceRepo.LoadPage(ctx, table, page, s.cfg.BatchSize)
		if err != nil {
			return written, err
		}
		if len(rows) == 0 {
			break
		}
		s.logger.Info("Page loaded",
			zap.String("table", table),
			zap.Int("page", page+1),
			zap.Int("rows", len(rows)),
		)

		var records []models.EmbeddingRecord
		var texts []string
		for _, row := range rows {
			id, ok := row["id"]
			if !ok {
				invalid++
				continue
			}
			texto := s.renderRow(table, row)
			if texto == "" {
				invalid++
				continue
			}
			records = append(records, models.EmbeddingRecord{
				ID:           fmt.Sprint(id),
				Content:      texto,
				SourceTable:  table,
				SourceKind:   sourceKind(table),
				VectorizedAt: time.Now().UTC(),
			})
			texts = append(texts, texto)
		}
		if len(records) == 0 {
			continue
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return written, err
		}
		for i := range records {
			records[i].Embedding = vectors[i]
		}

		if err := s.saveWithRetry(ctx, records); err != nil {
			s.logger.Error("Batch failed after retries, writing to fallback file",
				zap.String("table", table),
				zap.Error(err),
			)
			if werr := s.dumpFailedBatch(records); werr != nil {
				return written, werr
			}
			continue
		}
		written += len(records)
	}

	if invalid > 0 {
		s.logger.Warn("Rows skipped during ingestion",
			zap.String("table", table),
			zap.Int("skipped", invalid),
		)
	}
	return written, nil
}

// renderRow templates one source row into the plain text that gets embedded.
// Each table contributes its own salient columns; unknown tables fall back to
// the contenido column.
func (s *IngestService) renderRow(table string, row map[string]any) string {
	var parts []string
	appendField := func(label, column string) {
		if v, ok := row[column]; ok && v != nil {
			if str := strings.TrimSpace(fmt.Sprint(v)); str != "" {
				parts = append(parts, label+": "+str)
			}
		}
	}

	switch table {
	case "administraciones":
		appendField("Administración", "nombre")
		appendField("Teléfono", "telefono")
		appendField("Email", "email")
		appendField("Dirección", "direccion")
	case "fincas":
		appendField("Finca", "nombre")
		appendField("Dirección", "direccion")
		appendField("Portero", "portero")
		appendField("Notas", "notas")
	case "usuarios":
		appendField("Usuario", "nombre")
		appendField("Rol", "rol")
		appendField("Teléfono", "telefono_movil")
	case "incidencias":
		appendField("Incidencia", "titulo")
		appendField("Descripción", "descripcion")
		appendField("Estado", "estado")
	default:
		appendField("Contenido", "contenido")
	}

	return s.preprocess(strings.Join(parts, ". "))
}

// preprocess collapses whitespace and caps the text at the configured word
// budget before it goes to the embedding model.
func (s *IngestService) preprocess(texto string) string {
	texto = strings.TrimSpace(whitespaceRun.ReplaceAllString(texto, " "))
	words := strings.Fields(texto)
	if len(words) > s.cfg.MaxWords {
		s.logger.Warn("Source text exceeds word budget, truncating", zap.Int("words", len(words)))
		return strings.Join(words[:s.cfg.MaxWords], " ")
	}
	return texto
}

func (s *IngestService) saveWithRetry(ctx context.Context, records []models.EmbeddingRecord) error {
	return retry.Do(
		func() error {
			return s.sourceRepo.SaveBatch(ctx, records)
		},
		retry.Attempts(uint(s.cfg.MaxRetries)),
		retry.Context(ctx),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Warn("Retrying batch insert", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
}

// dumpFailedBatch appends the batch as one JSON line so it can be replayed.
func (s *IngestService) dumpFailedBatch(records []models.EmbeddingRecord) error {
	f, err := os.OpenFile(s.cfg.FailedLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(records); err != nil {
		return err
	}
	return nil
}

func sourceKind(table string) string {
	switch table {
	case "incidencias":
		return "incidencia"
	case "usuarios":
		return "usuario"
	case "fincas":
		return "finca"
	case "administraciones":
		return "administracion"
	default:
		return "documento"
	}
}
