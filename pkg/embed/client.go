// Package embed provides an HTTP client for a text-embeddings-inference
// style embedding service hosting multilingual-e5-large.
package embed

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

// Client calls the embedding service. Stateless per call; safe for
// concurrent use.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates an embedding client for the given base URL.
func New(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("embed: %w", domain.ErrMissingEndpoint)
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}, nil
}

type embedRequest struct {
	Inputs []string `json:"inputs"`
}

// Embed maps texts to dense vectors. Callers own the role prefixing
// convention ("Вопрос: ..." / "Вопрос: ... Ответ: ..."); the same prefix
// must be used at ingestion and query time.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("embed: %w", domain.ErrEmptyInput)
	}

	body, _ := json.Marshal(embedRequest{Inputs: texts})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed: %w: %v", domain.ErrEmbedding, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("embed: %w: status %d: %s", domain.ErrEmbedding, resp.StatusCode, msg)
	}

	var vectors [][]float32
	if err := json.NewDecoder(resp.Body).Decode(&vectors); err != nil {
		return nil, fmt.Errorf("embed: decode: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embed: %w: got %d vectors for %d texts", domain.ErrEmbedding, len(vectors), len(texts))
	}
	return vectors, nil
}

// EmbedOne embeds a single text.
func (c *Client) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}
