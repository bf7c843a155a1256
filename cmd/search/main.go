// Command search runs one query through the pipeline and prints the answer
// with its evidence. Smoke-test tool for a freshly ingested collection.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/MedAssistAI/medqa-mvp/engine/answer"
	"github.com/MedAssistAI/medqa-mvp/engine/rag"
	"github.com/MedAssistAI/medqa-mvp/engine/rerank"
	"github.com/MedAssistAI/medqa-mvp/engine/semantic"
	"github.com/MedAssistAI/medqa-mvp/pkg/embed"
	"github.com/MedAssistAI/medqa-mvp/pkg/infer"
)

func main() {
	var (
		query      = flag.String("query", "Как оформить больничный лист?", "patient question")
		k          = flag.Int("k", 3, "vector search depth")
		embedURL   = flag.String("embed", "http://localhost:8081", "embedding service base URL")
		qaURL      = flag.String("qa", "http://localhost:8082", "QA inference service base URL")
		qdrantAddr = flag.String("qdrant", "localhost:6334", "Qdrant gRPC address")
		collection = flag.String("collection", "medical_qa", "collection name")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	embedder, err := embed.New(*embedURL)
	if err != nil {
		fatal(err)
	}
	qaClient, err := infer.New(*qaURL)
	if err != nil {
		fatal(err)
	}
	store, err := semantic.New(*qdrantAddr, *collection)
	if err != nil {
		fatal(err)
	}
	defer store.Close()

	svc := rag.New(embedder, store, rerank.Lexical{}, answer.New(qaClient, logger), rag.DefaultOptions(), logger)

	ans, evidence, err := svc.Search(context.Background(), *query, *k)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("Query: %s\n\nAnswer:\n%s\n\nEvidence (%d):\n", *query, ans, len(evidence))
	for _, hit := range evidence {
		fmt.Printf("- [%d] score=%.3f\n  Вопрос: %s\n  Ответ: %s\n", hit.ID, hit.Score, hit.Question, hit.Answer)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
