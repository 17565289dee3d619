package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Pinecone talks to a Pinecone serverless index over its data-plane REST
// API.
type Pinecone struct {
	host   string
	apiKey string
	client *http.Client
}

type PineconeOption func(*Pinecone)

// WithHTTPClient replaces the default 30s-timeout client.
func WithHTTPClient(hc *http.Client) PineconeOption {
	return func(p *Pinecone) { p.client = hc }
}

// NewPinecone builds a client for the given index host
// (e.g. "https://my-index-abc123.svc.pinecone.io").
func NewPinecone(host, apiKey string, opts ...PineconeOption) *Pinecone {
	if !strings.HasPrefix(host, "http") {
		host = "https://" + host
	}
	p := &Pinecone{
		host:   strings.TrimRight(host, "/"),
		apiKey: apiKey,
		client: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type pineconeVector struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func (p *Pinecone) Upsert(ctx context.Context, vectors []Vector) error {
	if len(vectors) == 0 {
		return nil
	}
	payload := struct {
		Vectors []pineconeVector `json:"vectors"`
	}{Vectors: make([]pineconeVector, len(vectors))}
	for i, v := range vectors {
		payload.Vectors[i] = pineconeVector{ID: v.ID, Values: v.Values, Metadata: v.Metadata}
	}

	var resp struct {
		UpsertedCount int `json:"upsertedCount"`
	}
	if err := p.post(ctx, "/vectors/upsert", payload, &resp); err != nil {
		return fmt.Errorf("pinecone upsert: %w", err)
	}
	return nil
}

type pineconeQuery struct {
	Vector          []float32      `json:"vector"`
	TopK            int            `json:"topK"`
	IncludeMetadata bool           `json:"includeMetadata"`
	Filter          map[string]any `json:"filter,omitempty"`
}

type pineconeMatch struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata"`
}

func (p *Pinecone) Query(ctx context.Context, vector []float32, topK int, filter map[string]any) ([]Match, error) {
	q := pineconeQuery{
		Vector:          vector,
		TopK:            topK,
		IncludeMetadata: true,
		Filter:          filter,
	}

	var resp struct {
		Matches []pineconeMatch `json:"matches"`
	}
	if err := p.post(ctx, "/query", q, &resp); err != nil {
		return nil, fmt.Errorf("pinecone query: %w", err)
	}

	out := make([]Match, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		out = append(out, matchFromMetadata(m.Score, m.Metadata))
	}
	return out, nil
}

func (p *Pinecone) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.host+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status %d: %s", resp.StatusCode, msg)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func matchFromMetadata(score float64, md map[string]any) Match {
	m := Match{Score: score}
	if md == nil {
		return m
	}
	if v, ok := md["document_id"].(string); ok {
		m.DocumentID = v
	}
	switch v := md["chunk_index"].(type) {
	case float64: // JSON numbers decode as float64
		m.ChunkIndex = int(v)
	case int:
		m.ChunkIndex = v
	}
	if v, ok := md["text"].(string); ok {
		m.Text = v
	}
	if v, ok := md["source"].(string); ok {
		m.Source = v
	}
	return m
}
