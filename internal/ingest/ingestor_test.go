package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"medichat/internal/index"
)

// hashEmbedder derives a deterministic pseudo-embedding from the text so
// identical chunks match themselves exactly under cosine similarity.
type hashEmbedder struct {
	fail bool
}

func (e *hashEmbedder) embed(text string) []float32 {
	v := make([]float32, 8)
	for i, w := range strings.Fields(strings.ToLower(text)) {
		for _, r := range w {
			v[(i+int(r))%8] += float32(r%13) + 1
		}
	}
	return v
}

func (e *hashEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	if e.fail {
		return nil, errors.New("embedding service down")
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.embed(t)
	}
	return out, nil
}

func (e *hashEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	if e.fail {
		return nil, errors.New("embedding service down")
	}
	return e.embed(text), nil
}

func TestIngestor_IngestText(t *testing.T) {
	idx := index.NewMemory()
	ing := NewIngestor(&hashEmbedder{}, idx, NewWordSplitter(10, 3))

	res, err := ing.IngestText(context.Background(), nWords(25), SourceText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != "success" {
		t.Fatalf("expected status success, got %q", res.Status)
	}
	if res.ChunksStored != 4 {
		t.Fatalf("expected 4 chunks for 25 words at window 10/3, got %d", res.ChunksStored)
	}
	if res.DocumentID == "" {
		t.Fatalf("expected a document id")
	}
	if res.Source != SourceText {
		t.Fatalf("expected source text, got %q", res.Source)
	}
	if idx.Len() != 4 {
		t.Fatalf("expected 4 vectors stored, got %d", idx.Len())
	}
}

func TestIngestor_RetryUpsertsInPlace(t *testing.T) {
	idx := index.NewMemory()
	ing := NewIngestor(&hashEmbedder{}, idx, NewWordSplitter(10, 3))

	text := nWords(25)
	if _, err := ing.IngestText(context.Background(), text, SourceText); err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	if _, err := ing.IngestText(context.Background(), text, SourceText); err != nil {
		t.Fatalf("second ingest: %v", err)
	}

	// Vector IDs are content-addressed, so the retry overwrote rather
	// than duplicated.
	if idx.Len() != 4 {
		t.Fatalf("retried ingest duplicated vectors: %d stored", idx.Len())
	}
}

func TestIngestor_EmptyInput(t *testing.T) {
	ing := NewIngestor(&hashEmbedder{}, index.NewMemory(), NewWordSplitter(10, 3))

	_, err := ing.IngestText(context.Background(), "   \n\t ", SourceText)
	if !errors.Is(err, ErrNoInput) {
		t.Fatalf("expected ErrNoInput, got %v", err)
	}
}

func TestIngestor_EmbeddingFailure(t *testing.T) {
	ing := NewIngestor(&hashEmbedder{fail: true}, index.NewMemory(), NewWordSplitter(10, 3))

	_, err := ing.IngestText(context.Background(), "some words here", SourceText)
	var ie *IngestionError
	if !errors.As(err, &ie) {
		t.Fatalf("expected IngestionError, got %v", err)
	}
	if ie.Err == nil {
		t.Fatalf("expected wrapped cause for an upstream failure")
	}
}

func TestRetrieveTool_SourceFilter(t *testing.T) {
	idx := index.NewMemory()
	emb := &hashEmbedder{}
	ing := NewIngestor(emb, idx, NewWordSplitter(10, 3))
	ctx := context.Background()

	if _, err := ing.IngestText(ctx, "aviation regulations require pilots to log flight hours", SourcePDF); err != nil {
		t.Fatalf("pdf ingest: %v", err)
	}
	if _, err := ing.IngestText(ctx, "pasta recipes with tomato and basil sauce", SourceText); err != nil {
		t.Fatalf("text ingest: %v", err)
	}

	tool := NewRetrieveTool(emb, idx)
	out, err := tool.Execute(ctx, map[string]any{
		"query":  "aviation regulations require pilots to log flight hours",
		"top_k":  float64(5),
		"source": "pdf",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var matches []index.Match
	if err := json.Unmarshal([]byte(out), &matches); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("expected at least one match")
	}
	for _, m := range matches {
		if m.Source != "pdf" {
			t.Fatalf("source filter leaked a %q chunk: %+v", m.Source, m)
		}
	}
	if matches[0].Text == "" {
		t.Fatalf("match missing chunk text: %+v", matches[0])
	}
}

func TestRetrieveTool_RequiresQuery(t *testing.T) {
	tool := NewRetrieveTool(&hashEmbedder{}, index.NewMemory())
	if _, err := tool.Execute(context.Background(), map[string]any{}); err == nil {
		t.Fatalf("expected error for missing query")
	}
}
