// Package ingest turns raw text or PDF input into embedded, searchable
// chunks and exposes the retrieval tool over them.
package ingest

import "strings"

const (
	DefaultChunkSize = 500
	DefaultOverlap   = 100
)

// WordSplitter splits text into overlapping word windows. It implements
// textsplitter.TextSplitter.
//
// For N words, window W and overlap O the split yields
// ceil(max(0, N-W)/(W-O)) + 1 chunks; any text of at most W words is a
// single chunk.
type WordSplitter struct {
	ChunkSize int
	Overlap   int
}

func NewWordSplitter(chunkSize, overlap int) WordSplitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = DefaultOverlap
		if overlap >= chunkSize {
			// Small windows: the default overlap would stall or reverse
			// the step.
			overlap = chunkSize / 5
		}
	}
	return WordSplitter{ChunkSize: chunkSize, Overlap: overlap}
}

func (s WordSplitter) SplitText(text string) ([]string, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}

	step := s.ChunkSize - s.Overlap
	var chunks []string
	for start := 0; ; start += step {
		end := start + s.ChunkSize
		if end >= len(words) {
			chunks = append(chunks, strings.Join(words[start:], " "))
			return chunks, nil
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
}
