package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"medichat/internal/index"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/embeddings"
)

// Source tags where a chunk's text came from.
type Source string

const (
	SourcePDF  Source = "pdf"
	SourceText Source = "text"
)

// IngestionError reports a rejected or failed ingestion.
type IngestionError struct {
	Reason string
	Err    error
}

func (e *IngestionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ingestion failed: %s: %v", e.Reason, e.Err)
	}
	return "ingestion failed: " + e.Reason
}

func (e *IngestionError) Unwrap() error { return e.Err }

// ErrNoInput rejects a request carrying neither text nor a file.
var ErrNoInput = &IngestionError{Reason: "either text or a file must be provided"}

// ErrBothInputs rejects a request carrying both. The original behavior
// silently let the PDF overwrite the text parameter; that ambiguity is
// an explicit validation error here.
var ErrBothInputs = &IngestionError{Reason: "text and file are mutually exclusive, provide one"}

// Result is the ingestion endpoint's response body.
type Result struct {
	Status       string `json:"status"`
	DocumentID   string `json:"document_id"`
	ChunksStored int    `json:"chunks_stored"`
	Source       Source `json:"source"`
}

// Ingestor splits, embeds and upserts documents into the vector index.
type Ingestor struct {
	embedder embeddings.Embedder
	index    index.Index
	splitter WordSplitter
}

func NewIngestor(embedder embeddings.Embedder, idx index.Index, splitter WordSplitter) *Ingestor {
	return &Ingestor{embedder: embedder, index: idx, splitter: splitter}
}

// IngestText chunks and stores one document. All chunks land under a
// freshly generated document_id; the vector IDs themselves are
// content-addressed so a retried ingest upserts in place instead of
// duplicating.
func (ing *Ingestor) IngestText(ctx context.Context, text string, source Source) (*Result, error) {
	chunks, err := ing.splitter.SplitText(text)
	if err != nil {
		return nil, &IngestionError{Reason: "chunking failed", Err: err}
	}
	if len(chunks) == 0 {
		return nil, ErrNoInput
	}

	vectors, err := ing.embedder.EmbedDocuments(ctx, chunks)
	if err != nil {
		return nil, &IngestionError{Reason: "embedding failed", Err: err}
	}
	if len(vectors) != len(chunks) {
		return nil, &IngestionError{Reason: fmt.Sprintf("embedded %d of %d chunks", len(vectors), len(chunks))}
	}

	docID := uuid.NewString()
	upserts := make([]index.Vector, len(chunks))
	for i, chunk := range chunks {
		upserts[i] = index.Vector{
			ID:     chunkID(source, chunk, i),
			Values: vectors[i],
			Metadata: map[string]any{
				"document_id":  docID,
				"chunk_index":  i,
				"total_chunks": len(chunks),
				"source":       string(source),
				"text":         chunk,
			},
		}
	}

	if err := ing.index.Upsert(ctx, upserts); err != nil {
		return nil, &IngestionError{Reason: "index upsert failed", Err: err}
	}

	return &Result{
		Status:       "success",
		DocumentID:   docID,
		ChunksStored: len(chunks),
		Source:       source,
	}, nil
}

// IngestPDF extracts a PDF's text and ingests it under source "pdf".
func (ing *Ingestor) IngestPDF(ctx context.Context, r io.ReaderAt, size int64) (*Result, error) {
	text, err := ExtractPDF(ctx, r, size)
	if err != nil {
		return nil, err
	}
	return ing.IngestText(ctx, text, SourcePDF)
}

// chunkID derives a stable vector ID from what the chunk is, not when it
// was ingested.
func chunkID(source Source, chunk string, idx int) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%s", source, idx, chunk)))
	return hex.EncodeToString(h[:])
}
