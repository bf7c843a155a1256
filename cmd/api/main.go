// Command api serves the medical QA search pipeline over HTTP.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MedAssistAI/medqa-mvp/engine/answer"
	"github.com/MedAssistAI/medqa-mvp/engine/domain"
	"github.com/MedAssistAI/medqa-mvp/engine/rag"
	"github.com/MedAssistAI/medqa-mvp/engine/rerank"
	"github.com/MedAssistAI/medqa-mvp/engine/semantic"
	"github.com/MedAssistAI/medqa-mvp/pkg/embed"
	"github.com/MedAssistAI/medqa-mvp/pkg/infer"
	"github.com/MedAssistAI/medqa-mvp/pkg/metrics"
	"github.com/MedAssistAI/medqa-mvp/pkg/mid"
	"github.com/MedAssistAI/medqa-mvp/pkg/resilience"
)

// Config holds all environment-based configuration.
type Config struct {
	Port       string
	EmbedURL   string
	QAURL      string
	QdrantURL  string
	Collection string
	CORSOrigin string
	RateLimit  float64
	RateBurst  int
}

func loadConfig() Config {
	return Config{
		Port:       envOr("PORT", "8080"),
		EmbedURL:   envOr("EMBED_URL", "http://localhost:8081"),
		QAURL:      envOr("QA_URL", "http://localhost:8082"),
		QdrantURL:  envOr("QDRANT_URL", "localhost:6334"),
		Collection: envOr("QDRANT_COLLECTION", "medical_qa"),
		CORSOrigin: envOr("CORS_ORIGIN", "*"),
		RateLimit:  25,
		RateBurst:  50,
	}
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

	if err := run(loadConfig(), logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Clients ---
	embedder, err := embed.New(cfg.EmbedURL)
	if err != nil {
		return fmt.Errorf("embed client: %w", err)
	}

	qaClient, err := infer.New(cfg.QAURL)
	if err != nil {
		return fmt.Errorf("qa client: %w", err)
	}

	store, err := semantic.New(cfg.QdrantURL, cfg.Collection)
	if err != nil {
		return fmt.Errorf("qdrant connect: %w", err)
	}
	defer store.Close()

	// --- Pipeline ---
	extractor := &breakeredExtractor{
		inner:   qaClient,
		breaker: resilience.NewBreaker(resilience.DefaultBreakerOpts),
	}
	synth := answer.New(extractor, logger)
	svc := rag.New(embedder, store, rerank.Lexical{}, synth, rag.DefaultOptions(), logger)

	// --- HTTP server ---
	met := metrics.New()
	limiter := resilience.NewLimiter(resilience.LimiterOpts{Rate: cfg.RateLimit, Burst: cfg.RateBurst})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.Handle("POST /api/search", handleSearch(svc, met, logger))
	mux.Handle("GET /metrics", met.Handler())

	handler := mid.Chain(mux,
		mid.Recover(logger),
		mid.Logger(logger),
		mid.CORS(cfg.CORSOrigin),
		mid.RateLimit(limiter, met.RateLimitedTotal.Inc),
		mid.OTel("medqa-api"),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

// breakeredExtractor guards the inference service with a circuit breaker so
// a down QA model fails fast instead of tying up request handlers.
type breakeredExtractor struct {
	inner   *infer.Client
	breaker *resilience.Breaker
}

func (b *breakeredExtractor) Extract(ctx context.Context, question, passage string) (infer.Span, error) {
	var span infer.Span
	err := b.breaker.Do(ctx, func(ctx context.Context) error {
		var err error
		span, err = b.inner.Extract(ctx, question, passage)
		return err
	})
	return span, err
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type searchRequest struct {
	Query string `json:"query"`
	K     int    `json:"k"`
}

type searchResponse struct {
	Answer   string             `json:"answer"`
	Evidence []domain.SearchHit `json:"evidence"`
}

func handleSearch(svc *rag.Service, met *metrics.Metrics, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
			http.Error(w, "query is required", http.StatusBadRequest)
			return
		}

		start := time.Now()
		ans, evidence, err := svc.Search(r.Context(), req.Query, req.K)
		met.SearchDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			met.SearchesTotal.WithLabelValues("error").Inc()
			logger.Error("search failed", "err", err)
			// Any propagated pipeline error means "search unavailable";
			// callers may retry the whole request.
			http.Error(w, "search unavailable", http.StatusServiceUnavailable)
			return
		}
		met.SearchesTotal.WithLabelValues("ok").Inc()
		met.EvidenceCount.Observe(float64(len(evidence)))

		if evidence == nil {
			evidence = []domain.SearchHit{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(searchResponse{Answer: ans, Evidence: evidence})
	})
}
