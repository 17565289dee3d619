package index

import (
	"context"
	"math"
	"sort"
	"sync"
)

// Memory is an in-process cosine-similarity index. It backs tests and
// offline runs where no external vector service is reachable.
type Memory struct {
	mu      sync.RWMutex
	vectors map[string]Vector
}

func NewMemory() *Memory {
	return &Memory{vectors: make(map[string]Vector)}
}

// Upsert inserts or overwrites by vector ID.
func (m *Memory) Upsert(ctx context.Context, vectors []Vector) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range vectors {
		m.vectors[v.ID] = v
	}
	return nil
}

// Len reports the number of stored vectors.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.vectors)
}

// Query ranks stored vectors by cosine similarity against the query
// vector, applying equality filters over metadata first.
func (m *Memory) Query(ctx context.Context, vector []float32, topK int, filter map[string]any) ([]Match, error) {
	if topK <= 0 {
		return nil, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	type scored struct {
		match Match
		score float64
	}
	var sc []scored
	for _, v := range m.vectors {
		if !matchesFilter(v.Metadata, filter) {
			continue
		}
		score := cosine(vector, v.Values)
		sc = append(sc, scored{match: matchFromMetadata(score, v.Metadata), score: score})
	}

	sort.Slice(sc, func(i, j int) bool { return sc[i].score > sc[j].score })
	if len(sc) > topK {
		sc = sc[:topK]
	}

	out := make([]Match, 0, len(sc))
	for _, s := range sc {
		out = append(out, s.match)
	}
	return out, nil
}

func matchesFilter(md, filter map[string]any) bool {
	for k, want := range filter {
		if md == nil || md[k] != want {
			return false
		}
	}
	return true
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
