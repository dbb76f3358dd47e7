package domain

import (
	"context"
	"time"
)

// Rule is a single grammar or style rule from the knowledge base, together
// with its embedding vector. Immutable once the corpus is loaded.
type Rule struct {
	ID        string
	Text      string
	Embedding []float32
}

// RetrievedRule pairs a rule with its similarity score against a query.
type RetrievedRule struct {
	Rule  Rule
	Score float32
}

// Match is a raw index hit: rule id plus similarity score.
type Match struct {
	ID    string
	Score float32
}

// Generation is the parsed answer from the generation backend plus the raw
// payload it arrived in, kept for the exchange log.
type Generation struct {
	Text string
	Raw  []byte
}

// Status classifies the terminal outcome of one request.
type Status string

const (
	StatusAnswered  Status = "answered"
	StatusAmbiguous Status = "ambiguous"
	StatusFailed    Status = "failed"
)

// Outcome is what the dispatcher returns for one request.
type Outcome struct {
	Status Status
	// Answer holds the transformed text when Status is StatusAnswered.
	Answer string
	// Explanation holds the model's reasoning when Status is StatusAmbiguous.
	Explanation string
	// Err holds the terminal error when Status is StatusFailed.
	Err    error
	Record ExchangeRecord
}

// ExchangeRecord captures one full request/response cycle for later offline
// analysis. Records are append-only and never mutated.
type ExchangeRecord struct {
	RequestID   string    `json:"request_id"`
	Operation   string    `json:"operation"`
	UserText    string    `json:"user_text"`
	Prompt      string    `json:"prompt,omitempty"`
	Response    string    `json:"response,omitempty"`
	RawResponse string    `json:"raw_response,omitempty"`
	Status      Status    `json:"status"`
	ErrorKind   string    `json:"error_kind,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Embedder converts free text into a fixed-dimension vector. Implementations
// must be deterministic for a fixed model version and must reject empty input.
type Embedder interface {
	// Model identifies the embedding model version; vectors produced by
	// different model versions are not comparable.
	Model() string
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex is a similarity index over the rule corpus, built once at
// startup and read-only afterwards.
type VectorIndex interface {
	// Build indexes all vectors in one shot; ids[i] labels vectors[i].
	Build(ctx context.Context, ids []string, vectors [][]float32) error
	// Query returns up to k matches ordered by descending similarity.
	// Querying an empty index returns an empty result, never an error.
	Query(ctx context.Context, vector []float32, k int) ([]Match, error)
	Size() int
}

// Retriever returns the rules most relevant to the given text.
type Retriever interface {
	Retrieve(ctx context.Context, text string, k int) ([]RetrievedRule, error)
}

// Generator wraps the remote text-generation backend.
type Generator interface {
	Generate(ctx context.Context, prompt string) (Generation, error)
}

// Summarizer condenses the given text using a local model, no network.
type Summarizer interface {
	Summarize(text string) (string, error)
}

// ExchangeStore persists exchange records. Each Append is a single atomic
// write of one complete record.
type ExchangeStore interface {
	Append(record ExchangeRecord) error
}
