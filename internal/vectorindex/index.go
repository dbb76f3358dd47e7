// Package vectorindex defines the similarity index over rule embeddings.
// Implementations live in subpackages.
package vectorindex

import (
	"context"

	"github.com/abamaxa/llm-english-agent/internal/domain"
)

// Index is built once from the full corpus at startup and is read-only
// afterwards; rebuilding means constructing a new index.
type Index interface {
	Build(ctx context.Context, ids []string, vectors [][]float32) error
	Query(ctx context.Context, vector []float32, k int) ([]domain.Match, error)
	Size() int
}
