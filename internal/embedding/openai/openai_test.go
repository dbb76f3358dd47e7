package openai

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abamaxa/llm-english-agent/internal/domain"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	t.Setenv("TEST_EMBED_KEY", "embed-key")
	c, err := NewClient(Config{
		BaseURL:   url,
		APIKeyEnv: "TEST_EMBED_KEY",
		Model:     "test-embed",
		Timeout:   5 * time.Second,
	})
	require.NoError(t, err)
	c.sleep = func(time.Duration) {}
	return c
}

func TestEmbedSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		fmt.Fprint(w, `{"data":[{"embedding":[0.1,0.2,0.3]}]}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	vec, err := c.Embed(context.Background(), "some text")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, "test-embed", c.Model())
}

func TestEmbedRejectsEmptyText(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:0")
	for _, in := range []string{"", "   ", "\n\t"} {
		_, err := c.Embed(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%q", in)
	}
}

func TestEmbedRetriesTransientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"data":[{"embedding":[1]}]}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	vec, err := c.Embed(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, vec)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestEmbedExhaustedRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Embed(context.Background(), "text")
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestEmbedMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Embed(context.Background(), "text")
	assert.ErrorIs(t, err, domain.ErrInvalidResponse)
}

func TestEmbedDeterministicAgainstStubBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"embedding":[0.5,0.5]}]}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	first, err := c.Embed(context.Background(), "same text")
	require.NoError(t, err)
	second, err := c.Embed(context.Background(), "same text")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Setenv("EMPTY_EMBED_KEY", "")
	_, err := NewClient(Config{APIKeyEnv: "EMPTY_EMBED_KEY"})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
