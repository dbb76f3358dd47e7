// Package retriever composes the embedder, the vector index and the rule
// corpus into top-k rule retrieval.
package retriever

import (
	"context"
	"fmt"

	"github.com/abamaxa/llm-english-agent/internal/corpus"
	"github.com/abamaxa/llm-english-agent/internal/domain"
)

// Retriever returns the rules most relevant to a piece of user text. It
// applies no relevance floor: whether low-scoring rules are worth including
// is prompt policy, not retrieval policy.
type Retriever struct {
	embedder domain.Embedder
	index    domain.VectorIndex
	corpus   *corpus.Corpus
}

// New creates a retriever over an already-built index.
func New(embedder domain.Embedder, index domain.VectorIndex, c *corpus.Corpus) *Retriever {
	return &Retriever{embedder: embedder, index: index, corpus: c}
}

// Retrieve embeds the text, queries the index for the top k rules and maps
// the hits back to rule text. k must be positive; results are ordered by
// descending similarity and may be shorter than k (or empty) when the
// corpus is small (or empty).
func (r *Retriever) Retrieve(ctx context.Context, text string, k int) ([]domain.RetrievedRule, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: top-k must be positive, got %d", domain.ErrInvalidInput, k)
	}
	vec, err := r.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	matches, err := r.index.Query(ctx, vec, k)
	if err != nil {
		return nil, err
	}
	results := make([]domain.RetrievedRule, 0, len(matches))
	for _, m := range matches {
		rule, ok := r.corpus.Get(m.ID)
		if !ok {
			return nil, fmt.Errorf("%w: index returned unknown rule id %q", domain.ErrConfiguration, m.ID)
		}
		results = append(results, domain.RetrievedRule{Rule: rule, Score: m.Score})
	}
	return results, nil
}
