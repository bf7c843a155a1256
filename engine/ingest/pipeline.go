package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MedAssistAI/medqa-mvp/engine/domain"
)

// DefaultBatchSize is how many records are embedded and upserted per batch.
const DefaultBatchSize = 10

// Indexing-time embedding format. Must stay paired with the query-time
// "Вопрос: ..." prefix used by the search pipeline.
const recordTextFormat = "Вопрос: %s Ответ: %s"

// Embedder maps a batch of texts to dense vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Store writes embedded records into the vector collection.
type Store interface {
	Upsert(ctx context.Context, records []domain.QARecord) error
}

// Pipeline embeds and upserts QA records in batches. There is no
// partial-batch rollback: any failure means the whole run failed and must be
// retried from scratch.
type Pipeline struct {
	embed     Embedder
	store     Store
	batchSize int
	logger    *slog.Logger

	// Progress is called after each batch with (done, total) record counts.
	// Optional; used by the CLI to drive a progress bar.
	Progress func(done, total int)
}

// NewPipeline creates an ingestion pipeline. batchSize <= 0 selects
// DefaultBatchSize.
func NewPipeline(embed Embedder, store Store, batchSize int, logger *slog.Logger) *Pipeline {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{embed: embed, store: store, batchSize: batchSize, logger: logger}
}

// Run validates every record up front, then embeds and upserts them batch by
// batch. Returns the number of records written.
func (p *Pipeline) Run(ctx context.Context, records []domain.QARecord) (int, error) {
	for _, r := range records {
		if err := domain.ValidateRecord(r); err != nil {
			return 0, fmt.Errorf("ingest: record %d: %w", r.ID, err)
		}
	}

	total := len(records)
	for start := 0; start < total; start += p.batchSize {
		end := min(start+p.batchSize, total)
		batch := records[start:end]

		texts := make([]string, len(batch))
		for i, r := range batch {
			texts[i] = fmt.Sprintf(recordTextFormat, r.Question, r.Answer)
		}

		vectors, err := p.embed.Embed(ctx, texts)
		if err != nil {
			return start, fmt.Errorf("ingest: embed batch at %d: %w", start, err)
		}
		for i := range batch {
			batch[i].Vector = vectors[i]
		}

		if err := p.store.Upsert(ctx, batch); err != nil {
			return start, fmt.Errorf("ingest: upsert batch at %d: %w", start, err)
		}

		p.logger.Info("batch ingested", "from", start, "to", end, "total", total)
		if p.Progress != nil {
			p.Progress(end, total)
		}
	}
	return total, nil
}
