// Package qdrant backs the vector index with a Qdrant collection over its
// REST API. The collection is recreated on every build so the index always
// mirrors the loaded corpus exactly.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/abamaxa/llm-english-agent/internal/domain"
)

// Index is a minimal REST client to Qdrant using cosine distance.
type Index struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client

	mu   sync.RWMutex
	size int
	ids  []string
}

// Config contains connection details for a Qdrant instance.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// New creates an unbuilt Qdrant-backed index.
func New(cfg Config) *Index {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Index{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// Build drops any previous collection, creates a fresh one sized to the
// vectors, and upserts every rule point in one request.
func (x *Index) Build(ctx context.Context, ids []string, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return errors.New("ids and vectors length mismatch")
	}
	if len(vectors) == 0 {
		x.mu.Lock()
		x.size = 0
		x.ids = nil
		x.mu.Unlock()
		return nil
	}
	dim := len(vectors[0])

	// Best-effort drop of a stale collection.
	req, _ := http.NewRequestWithContext(ctx, http.MethodDelete,
		fmt.Sprintf("%s/collections/%s", x.url, x.collection), nil)
	x.setHeaders(req)
	if resp, err := x.client.Do(req); err == nil {
		_ = resp.Body.Close()
	}

	create := map[string]any{
		"vectors": map[string]any{
			"size":     dim,
			"distance": "Cosine",
		},
	}
	if err := x.putJSON(ctx, fmt.Sprintf("%s/collections/%s", x.url, x.collection), create); err != nil {
		return err
	}

	points := make([]map[string]any, len(ids))
	for i := range ids {
		if len(vectors[i]) != dim {
			return errors.New("vector dimension mismatch")
		}
		points[i] = map[string]any{
			"id":     i,
			"vector": vectors[i],
			"payload": map[string]any{
				"rule_id": ids[i],
			},
		}
	}
	body := map[string]any{"points": points}
	if err := x.putJSON(ctx, fmt.Sprintf("%s/collections/%s/points?wait=true", x.url, x.collection), body); err != nil {
		return err
	}

	x.mu.Lock()
	x.size = len(ids)
	x.ids = append([]string(nil), ids...)
	x.mu.Unlock()
	return nil
}

// Query searches the collection for the top-k nearest rules.
func (x *Index) Query(ctx context.Context, vector []float32, k int) ([]domain.Match, error) {
	x.mu.RLock()
	size := x.size
	x.mu.RUnlock()
	if k <= 0 || size == 0 {
		return nil, nil
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float32        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := x.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/search", x.url, x.collection), req, &resp); err != nil {
		return nil, err
	}
	matches := make([]domain.Match, 0, len(resp.Result))
	for _, r := range resp.Result {
		id, _ := r.Payload["rule_id"].(string)
		if id == "" {
			continue
		}
		matches = append(matches, domain.Match{ID: id, Score: r.Score})
	}
	return matches, nil
}

// Size returns the number of indexed vectors.
func (x *Index) Size() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.size
}

func (x *Index) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if x.apiKey != "" {
		req.Header.Set("api-key", x.apiKey)
	}
}

func (x *Index) putJSON(ctx context.Context, url string, body any) error {
	data, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	x.setHeaders(req)
	resp, err := x.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant PUT %s failed: %s", url, resp.Status)
	}
	return nil
}

func (x *Index) postJSON(ctx context.Context, url string, body any, out any) error {
	data, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	x.setHeaders(req)
	resp, err := x.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant POST %s failed: %s", url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
