package infer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MedAssistAI/medqa-mvp/engine/domain"
)

func TestNew_MissingEndpoint(t *testing.T) {
	if _, err := New(""); !errors.Is(err, domain.ErrMissingEndpoint) {
		t.Fatalf("expected ErrMissingEndpoint, got %v", err)
	}
}

func TestExtract_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req extractRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.MaxLength != MaxLength {
			t.Errorf("expected max_length %d, got %d", MaxLength, req.MaxLength)
		}
		if req.Question == "" || req.Context == "" {
			t.Error("question and context must be forwarded")
		}
		json.NewEncoder(w).Encode(Span{
			Answer: "Обратитесь к врачу для оформления больничного листа.",
			Start:  14,
			End:    22,
			Score:  0.87,
		})
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	span, err := c.Extract(context.Background(), "Как оформить больничный лист?", "[КОНТЕКСТ] ...")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if span.Answer == "" || span.End <= span.Start {
		t.Errorf("unexpected span: %+v", span)
	}
}

func TestExtract_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "cuda out of memory", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, _ := New(srv.URL)
	if _, err := c.Extract(context.Background(), "q", "ctx"); !errors.Is(err, domain.ErrInference) {
		t.Fatalf("expected ErrInference, got %v", err)
	}
}
