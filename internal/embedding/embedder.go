// Package embedding defines the text embedding boundary. Implementations
// live in subpackages.
package embedding

import "context"

// Embedder converts free text into a fixed-dimension vector. Repeated calls
// with the same text and model version must return identical vectors.
type Embedder interface {
	Model() string
	Embed(ctx context.Context, text string) ([]float32, error)
}
