// Package infer provides an HTTP client for an extractive question-answering
// inference service (HuggingFace question-answering pipeline API shape).
// The service tokenizes (query, context), runs start/end logit argmax, and
// returns the decoded span.
package infer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MedAssistAI/medqa-mvp/engine/domain"
)

// MaxLength is the token truncation limit passed to the service.
const MaxLength = 512

// Span is the extracted answer span. Start and End are token positions
// (end-exclusive) inside the truncated input.
type Span struct {
	Answer string  `json:"answer"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
	Score  float64 `json:"score"`
}

// Client calls the QA inference service. Safe for concurrent use.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates an inference client for the given base URL.
func New(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("infer: %w", domain.ErrMissingEndpoint)
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}, nil
}

type extractRequest struct {
	Question  string `json:"question"`
	Context   string `json:"context"`
	MaxLength int    `json:"max_length"`
}

// Extract runs a single extractive QA inference over (question, passage).
// One call per query; the pipeline never retries.
func (c *Client) Extract(ctx context.Context, question, passage string) (Span, error) {
	body, _ := json.Marshal(extractRequest{
		Question:  question,
		Context:   passage,
		MaxLength: MaxLength,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/qa", bytes.NewReader(body))
	if err != nil {
		return Span{}, fmt.Errorf("infer: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Span{}, fmt.Errorf("infer: %w: %v", domain.ErrInference, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Span{}, fmt.Errorf("infer: %w: status %d: %s", domain.ErrInference, resp.StatusCode, msg)
	}

	var span Span
	if err := json.NewDecoder(resp.Body).Decode(&span); err != nil {
		return Span{}, fmt.Errorf("infer: decode: %w", err)
	}
	return span, nil
}
