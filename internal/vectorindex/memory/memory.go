// Package memory provides an exact in-memory cosine similarity index.
package memory

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/abamaxa/llm-english-agent/internal/domain"
)

// Index holds L2-normalized vectors and answers top-k queries by brute
// force. The corpus is small enough that exact search beats any
// approximate structure.
type Index struct {
	mu        sync.RWMutex
	dimension int
	ids       []string
	vectors   [][]float32
}

// New creates an empty, unbuilt index.
func New() *Index { return &Index{} }

// Build indexes all vectors in one shot. The index is either fully built or
// untouched; a dimension mismatch leaves it empty.
func (x *Index) Build(ctx context.Context, ids []string, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return errors.New("ids and vectors length mismatch")
	}
	if len(vectors) == 0 {
		return nil
	}
	dim := len(vectors[0])
	if dim == 0 {
		return errors.New("zero-dimension vectors")
	}
	normalized := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return errors.New("vector dimension mismatch")
		}
		normalized[i] = normalize(v)
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	x.dimension = dim
	x.ids = append([]string(nil), ids...)
	x.vectors = normalized
	return nil
}

// Query returns up to k matches by descending cosine similarity. Equal
// scores keep corpus insertion order. An empty index yields an empty
// result, never an error.
func (x *Index) Query(ctx context.Context, vector []float32, k int) ([]domain.Match, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if k <= 0 || len(x.vectors) == 0 {
		return nil, nil
	}
	if len(vector) != x.dimension {
		return nil, errors.New("query vector dimension mismatch")
	}
	q := normalize(vector)
	scores := make([]float32, len(x.vectors))
	for i := range x.vectors {
		scores[i] = dot(x.vectors[i], q)
	}
	idxs := make([]int, len(scores))
	for i := range idxs {
		idxs[i] = i
	}
	// Stable sort so ties resolve to insertion order.
	sort.SliceStable(idxs, func(a, b int) bool { return scores[idxs[a]] > scores[idxs[b]] })
	if k > len(idxs) {
		k = len(idxs)
	}
	matches := make([]domain.Match, 0, k)
	for i := 0; i < k; i++ {
		j := idxs[i]
		matches = append(matches, domain.Match{ID: x.ids[j], Score: scores[j]})
	}
	return matches, nil
}

// Size returns the number of indexed vectors.
func (x *Index) Size() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.vectors)
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func normalize(v []float32) []float32 {
	var norm float64
	for _, f := range v {
		norm += float64(f) * float64(f)
	}
	norm = math.Sqrt(norm)
	out := make([]float32, len(v))
	if norm == 0 {
		copy(out, v)
		return out
	}
	for i, f := range v {
		out[i] = float32(float64(f) / norm)
	}
	return out
}
