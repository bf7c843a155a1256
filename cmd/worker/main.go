// Command worker serves the search pipeline to in-cluster callers over NATS
// request/reply on the medqa.search subject.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/MedAssistAI/medqa-mvp/engine/answer"
	"github.com/MedAssistAI/medqa-mvp/engine/domain"
	"github.com/MedAssistAI/medqa-mvp/engine/rag"
	"github.com/MedAssistAI/medqa-mvp/engine/rerank"
	"github.com/MedAssistAI/medqa-mvp/engine/semantic"
	"github.com/MedAssistAI/medqa-mvp/pkg/embed"
	"github.com/MedAssistAI/medqa-mvp/pkg/infer"
	"github.com/MedAssistAI/medqa-mvp/pkg/natsutil"
)

const (
	searchSubject = "medqa.search"
	workerQueue   = "medqa-workers"
)

type searchRequest struct {
	Query string `json:"query"`
	K     int    `json:"k"`
}

type searchResponse struct {
	Answer   string             `json:"answer"`
	Evidence []domain.SearchHit `json:"evidence"`
	Error    string             `json:"error,omitempty"`
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	natsURL := envOr("NATS_URL", "nats://localhost:4222")
	embedURL := envOr("EMBED_URL", "http://localhost:8081")
	qaURL := envOr("QA_URL", "http://localhost:8082")
	qdrantAddr := envOr("QDRANT_URL", "localhost:6334")
	collection := envOr("QDRANT_COLLECTION", "medical_qa")

	embedder, err := embed.New(embedURL)
	if err != nil {
		logger.Error("embed client failed", "err", err)
		os.Exit(1)
	}
	qaClient, err := infer.New(qaURL)
	if err != nil {
		logger.Error("qa client failed", "err", err)
		os.Exit(1)
	}
	store, err := semantic.New(qdrantAddr, collection)
	if err != nil {
		logger.Error("qdrant connect failed", "err", err)
		os.Exit(1)
	}
	defer store.Close()

	svc := rag.New(embedder, store, rerank.Lexical{}, answer.New(qaClient, logger), rag.DefaultOptions(), logger)

	nc, err := natsutil.Connect(natsURL)
	if err != nil {
		logger.Error("nats connect failed", "err", err)
		os.Exit(1)
	}
	defer nc.Drain()

	sub, err := natsutil.RespondQueue(nc, searchSubject, workerQueue,
		func(ctx context.Context, req searchRequest) searchResponse {
			if req.Query == "" {
				return searchResponse{Error: "query is required"}
			}
			ans, evidence, err := svc.Search(ctx, req.Query, req.K)
			if err != nil {
				logger.Error("search failed", "err", err)
				return searchResponse{Error: "search unavailable"}
			}
			if evidence == nil {
				evidence = []domain.SearchHit{}
			}
			return searchResponse{Answer: ans, Evidence: evidence}
		})
	if err != nil {
		logger.Error("subscribe failed", "err", err)
		os.Exit(1)
	}
	defer sub.Unsubscribe()

	logger.Info("worker listening", "subject", searchSubject, "queue", workerQueue)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	logger.Info("shutdown signal received")
}
