// Package index abstracts the external nearest-neighbor service that
// stores embedded document chunks.
package index

import "context"

// Vector is one stored chunk embedding with its metadata.
type Vector struct {
	ID       string
	Values   []float32
	Metadata map[string]any
}

// Match is one retrieval hit, highest similarity first.
type Match struct {
	Score      float64 `json:"score"`
	DocumentID string  `json:"document_id"`
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Source     string  `json:"source"`
}

// Index is the external vector store contract. Implementations provide
// their own consistency guarantees; callers do no client-side caching or
// locking.
type Index interface {
	Upsert(ctx context.Context, vectors []Vector) error
	Query(ctx context.Context, vector []float32, topK int, filter map[string]any) ([]Match, error)
}
