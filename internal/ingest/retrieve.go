package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"medichat/internal/index"
	"medichat/internal/tools"

	"github.com/tmc/langchaingo/embeddings"
)

// RetrieveTool exposes the vector index as the retrieve_documents
// capability.
type RetrieveTool struct {
	embedder embeddings.Embedder
	index    index.Index
}

func NewRetrieveTool(embedder embeddings.Embedder, idx index.Index) *RetrieveTool {
	return &RetrieveTool{embedder: embedder, index: idx}
}

func (t *RetrieveTool) Name() string { return "retrieve_documents" }

func (t *RetrieveTool) Description() string {
	return "Searches the ingested document index and returns the most relevant text chunks. " +
		"Call this for questions about ingested documents or policies."
}

func (t *RetrieveTool) Schema() tools.Schema {
	return tools.Schema{
		"query": {Type: "string", Description: "The search query.", Required: true},
		"top_k": {Type: "integer", Description: "Number of chunks to return.", Default: 5},
		"source": {
			Type:        "string",
			Description: "Restrict results to one source kind.",
			Enum:        []string{"pdf", "text"},
		},
	}
}

func (t *RetrieveTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	query, _ := args["query"].(string)
	if query == "" {
		return "", fmt.Errorf("query is required")
	}

	topK := 5
	if v, ok := args["top_k"].(float64); ok && v > 0 {
		topK = int(v)
	} else if v, ok := args["top_k"].(int); ok && v > 0 {
		topK = v
	}

	var filter map[string]any
	if src, ok := args["source"].(string); ok && src != "" {
		filter = map[string]any{"source": src}
	}

	vector, err := t.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}

	matches, err := t.index.Query(ctx, vector, topK, filter)
	if err != nil {
		return "", fmt.Errorf("query index: %w", err)
	}

	for i := range matches {
		matches[i].Score = math.Round(matches[i].Score*1000) / 1000
	}

	out, err := json.Marshal(matches)
	if err != nil {
		return "", fmt.Errorf("encode matches: %w", err)
	}
	return string(out), nil
}
