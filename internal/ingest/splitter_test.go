package ingest

import (
	"fmt"
	"strings"
	"testing"
)

func nWords(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(words, " ")
}

func TestWordSplitter_ChunkCount(t *testing.T) {
	s := NewWordSplitter(500, 100)

	tests := []struct {
		words int
		want  int
	}{
		{0, 0},
		{1, 1},
		{499, 1},
		{500, 1},
		{501, 2},
		{900, 2},
		{901, 3},
		{1200, 3},
		{1300, 3},
		{1301, 4},
	}
	for _, tt := range tests {
		chunks, err := s.SplitText(nWords(tt.words))
		if err != nil {
			t.Fatalf("%d words: unexpected error: %v", tt.words, err)
		}
		if len(chunks) != tt.want {
			t.Errorf("%d words: got %d chunks, want %d", tt.words, len(chunks), tt.want)
		}
	}
}

func TestWordSplitter_Overlap(t *testing.T) {
	s := NewWordSplitter(10, 3)
	chunks, err := s.SplitText(nWords(25))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// step = 7: windows [0,10) [7,17) [14,24) [21,25)
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(chunks))
	}

	// Consecutive chunks share the overlap words.
	for i := 0; i < len(chunks)-1; i++ {
		cur := strings.Fields(chunks[i])
		next := strings.Fields(chunks[i+1])
		tail := cur[len(cur)-3:]
		head := next[:3]
		for j := range tail {
			if tail[j] != head[j] {
				t.Fatalf("chunks %d/%d do not overlap: tail %v vs head %v", i, i+1, tail, head)
			}
		}
	}

	// The last chunk ends with the last word.
	last := strings.Fields(chunks[len(chunks)-1])
	if last[len(last)-1] != "w24" {
		t.Fatalf("final word missing, last chunk ends with %q", last[len(last)-1])
	}
}

func TestWordSplitter_WhitespaceNormalization(t *testing.T) {
	s := NewWordSplitter(500, 100)
	chunks, err := s.SplitText("  one\t\ttwo\n\nthree  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 || chunks[0] != "one two three" {
		t.Fatalf("expected normalized single chunk, got %q", chunks)
	}
}

func TestNewWordSplitter_Defaults(t *testing.T) {
	s := NewWordSplitter(0, -1)
	if s.ChunkSize != DefaultChunkSize || s.Overlap != DefaultOverlap {
		t.Fatalf("expected defaults %d/%d, got %d/%d",
			DefaultChunkSize, DefaultOverlap, s.ChunkSize, s.Overlap)
	}

	// Overlap >= chunk size would make the window step backwards. The
	// clamp must stay below the chunk size even when the chunk size is
	// smaller than the default overlap.
	for _, args := range [][2]int{{50, 50}, {10, 40}, {1, 1}} {
		s = NewWordSplitter(args[0], args[1])
		if s.Overlap >= s.ChunkSize {
			t.Fatalf("NewWordSplitter(%d, %d): overlap %d not clamped below chunk size %d",
				args[0], args[1], s.Overlap, s.ChunkSize)
		}
	}
}

func TestWordSplitter_SmallWindowSplits(t *testing.T) {
	s := NewWordSplitter(50, 50)
	chunks, err := s.SplitText(nWords(60))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected 60 words to exceed a 50-word window, got %d chunks", len(chunks))
	}
	last := strings.Fields(chunks[len(chunks)-1])
	if last[len(last)-1] != "w59" {
		t.Fatalf("final word missing, last chunk ends with %q", last[len(last)-1])
	}
}
