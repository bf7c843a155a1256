// Package rag orchestrates the retrieval-and-answer pipeline: it embeds a
// patient query, searches the vector collection, filters candidates
// lexically, and synthesizes the final answer from the surviving evidence.
package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MedAssistAI/medqa-mvp/engine/domain"
)

// Query-time embedding prefix. Must stay paired with the ingestion-time
// "Вопрос: ... Ответ: ..." prefix, since embedding similarity is sensitive
// to the role formatting.
const queryPrefix = "Вопрос: "

// Embedder maps a query to its dense vector.
type Embedder interface {
	EmbedOne(ctx context.Context, text string) ([]float32, error)
}

// Searcher abstracts cosine k-NN search over the QA collection.
type Searcher interface {
	Search(ctx context.Context, vector []float32, k int) ([]domain.SearchHit, error)
}

// Reranker filters and re-orders vector search candidates lexically.
type Reranker interface {
	Filter(query string, hits []domain.SearchHit) []domain.SearchHit
}

// Synthesizer produces the final answer from the query and evidence context.
type Synthesizer interface {
	Synthesize(ctx context.Context, query, evidence string) (string, error)
}

// Options configures the pipeline.
type Options struct {
	// TopK is the vector search depth used when the caller passes k <= 0.
	TopK int
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{TopK: 5}
}

// Service composes the pipeline stages. It holds only read-only handles, so
// concurrent Search calls are safe.
type Service struct {
	embed  Embedder
	search Searcher
	rerank Reranker
	synth  Synthesizer
	opts   Options
	logger *slog.Logger
}

// New creates a pipeline Service with explicit, caller-owned dependencies.
func New(embed Embedder, search Searcher, rerank Reranker, synth Synthesizer, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.TopK <= 0 {
		opts.TopK = DefaultOptions().TopK
	}
	return &Service{
		embed:  embed,
		search: search,
		rerank: rerank,
		synth:  synth,
		opts:   opts,
		logger: logger,
	}
}

// Search runs the full pipeline for one query and returns the answer with
// its supporting evidence. Errors from embedding, vector search, or
// inference propagate uncaught; the pipeline never retries. On success the
// answer is always non-empty, even when the evidence list is empty.
func (s *Service) Search(ctx context.Context, query string, k int) (string, []domain.SearchHit, error) {
	if k <= 0 {
		k = s.opts.TopK
	}
	s.logger.Info("pipeline start", "query_len", len(query), "k", k)

	vector, err := s.embed.EmbedOne(ctx, queryPrefix+query)
	if err != nil {
		return "", nil, fmt.Errorf("rag: embed query: %w", err)
	}

	hits, err := s.search.Search(ctx, vector, k)
	if err != nil {
		return "", nil, fmt.Errorf("rag: vector search: %w", err)
	}
	s.logger.Info("vector search done", "hits", len(hits))

	filtered := s.rerank.Filter(query, hits)
	s.logger.Info("lexical filter done", "kept", len(filtered))

	answer, err := s.synth.Synthesize(ctx, query, evidenceContext(filtered))
	if err != nil {
		return "", nil, fmt.Errorf("rag: synthesize: %w", err)
	}

	return answer, filtered, nil
}

// evidenceContext concatenates filtered hits into the synthesis context.
func evidenceContext(hits []domain.SearchHit) string {
	parts := make([]string, len(hits))
	for i, h := range hits {
		parts[i] = fmt.Sprintf("Вопрос: %s\nОтвет: %s", h.Question, h.Answer)
	}
	return strings.Join(parts, "\n")
}
