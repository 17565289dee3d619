// Package embed provides the Jina embeddings client behind the
// langchaingo embeddings contract.
package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/embeddings"
)

const (
	jinaEmbeddingURL = "https://api.jina.ai/v1/embeddings"
	jinaModel        = "jina-embeddings-v4"
	jinaTask         = "text-matching"

	// Dimensions is the embedding width the index is provisioned for.
	Dimensions = 1024
)

// JinaClient calls the Jina embeddings API. It implements
// embeddings.EmbedderClient so it can be wrapped with
// embeddings.NewEmbedder.
type JinaClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type JinaOption func(*JinaClient)

// WithBaseURL points the client at a different endpoint, used by tests.
func WithBaseURL(url string) JinaOption {
	return func(c *JinaClient) { c.baseURL = url }
}

// WithHTTPClient replaces the default 30s-timeout client.
func WithHTTPClient(hc *http.Client) JinaOption {
	return func(c *JinaClient) { c.client = hc }
}

func NewJinaClient(apiKey string, opts ...JinaOption) *JinaClient {
	c := &JinaClient{
		apiKey:  apiKey,
		baseURL: jinaEmbeddingURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewEmbedder wraps the client in the langchaingo embedder, which adds
// batching and query/document helpers on top of CreateEmbedding.
func NewEmbedder(c *JinaClient) (embeddings.Embedder, error) {
	return embeddings.NewEmbedder(c)
}

type jinaInput struct {
	Text string `json:"text"`
}

type jinaRequest struct {
	Model      string      `json:"model"`
	Task       string      `json:"task"`
	Dimensions int         `json:"dimensions"`
	Input      []jinaInput `json:"input"`
}

type jinaResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// CreateEmbedding embeds the given texts, one vector per text in order.
func (c *JinaClient) CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	reqBody := jinaRequest{
		Model:      jinaModel,
		Task:       jinaTask,
		Dimensions: Dimensions,
		Input:      make([]jinaInput, len(texts)),
	}
	for i, t := range texts {
		reqBody.Input[i] = jinaInput{Text: t}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("embedding service returned %d: %s", resp.StatusCode, body)
	}

	var parsed jinaResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("embedding service returned %d vectors for %d texts", len(parsed.Data), len(texts))
	}

	out := make([][]float32, len(parsed.Data))
	for i, d := range parsed.Data {
		out[i] = d.Embedding
	}
	return out, nil
}
