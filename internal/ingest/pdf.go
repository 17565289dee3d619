package ingest

import (
	"context"
	"io"
	"strings"

	"github.com/tmc/langchaingo/documentloaders"
)

// ExtractPDF pulls the text out of a PDF, page by page, joined with
// newlines.
func ExtractPDF(ctx context.Context, r io.ReaderAt, size int64) (string, error) {
	loader := documentloaders.NewPDF(r, size)
	docs, err := loader.Load(ctx)
	if err != nil {
		return "", &IngestionError{Reason: "pdf extraction failed", Err: err}
	}

	var b strings.Builder
	for _, doc := range docs {
		page := strings.TrimSpace(doc.PageContent)
		if page == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(page)
	}
	return b.String(), nil
}
