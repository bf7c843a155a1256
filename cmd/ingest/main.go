// Command ingest loads the QA source file into the vector collection:
// validate, embed in batches, upsert, and verify the stored count.
//
// This is an exclusive administrative operation. By default an existing
// collection is reused ("create if absent"); -recreate drops and rebuilds it
// for deterministic re-ingestion.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/schollz/progressbar/v3"

	"github.com/MedAssistAI/medqa-mvp/engine/ingest"
	"github.com/MedAssistAI/medqa-mvp/engine/semantic"
	"github.com/MedAssistAI/medqa-mvp/pkg/embed"
)

func main() {
	var (
		dataPath   = flag.String("data", "data/medical_data.json", "QA source JSON file")
		embedURL   = flag.String("embed", "http://localhost:8081", "embedding service base URL")
		qdrantAddr = flag.String("qdrant", "localhost:6334", "Qdrant gRPC address")
		collection = flag.String("collection", "medical_qa", "collection name")
		batchSize  = flag.Int("batch", ingest.DefaultBatchSize, "records per embed/upsert batch")
		recreate   = flag.Bool("recreate", false, "drop and recreate the collection before ingesting")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	records, err := ingest.LoadRecords(*dataPath)
	if err != nil {
		logger.Error("load records failed", "err", err)
		os.Exit(1)
	}
	logger.Info("records loaded", "path", *dataPath, "count", len(records))

	embedder, err := embed.New(*embedURL)
	if err != nil {
		logger.Error("embed client failed", "err", err)
		os.Exit(1)
	}

	store, err := semantic.New(*qdrantAddr, *collection)
	if err != nil {
		logger.Error("qdrant connect failed", "err", err)
		os.Exit(1)
	}
	defer store.Close()

	if *recreate {
		if err := store.RecreateCollection(ctx); err != nil {
			logger.Error("recreate collection failed", "err", err)
			os.Exit(1)
		}
		logger.Info("collection recreated", "collection", *collection)
	} else {
		if err := store.EnsureCollection(ctx); err != nil {
			logger.Error("ensure collection failed", "err", err)
			os.Exit(1)
		}
	}

	bar := progressbar.Default(int64(len(records)), "ingesting")
	pipeline := ingest.NewPipeline(embedder, store, *batchSize, logger)
	pipeline.Progress = func(done, _ int) { _ = bar.Set(done) }

	written, err := pipeline.Run(ctx, records)
	if err != nil {
		// No partial commit semantics: rerun the whole ingestion.
		logger.Error("ingestion failed, retry the full run", "written_before_failure", written, "err", err)
		os.Exit(1)
	}
	_ = bar.Finish()

	count, err := store.Count(ctx)
	if err != nil {
		logger.Error("count verification failed", "err", err)
		os.Exit(1)
	}
	logger.Info("ingestion complete", "written", written, "stored", count)
}
