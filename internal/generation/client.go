// Package generation wraps the remote chat-completions backend used for the
// text-transformation operations.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/abamaxa/llm-english-agent/internal/domain"
)

// Client calls an OpenAI-compatible chat completions endpoint. Transient
// failures are retried with capped exponential backoff; every call is
// bounded by the configured timeout.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxRetries  int
	client      *http.Client
	sleep       func(time.Duration)
	logger      *log.Logger
}

// Config configures the generation client.
type Config struct {
	BaseURL     string
	APIKeyEnv   string
	Model       string
	Temperature float64
	Timeout     time.Duration
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
}

// NewClient creates a generation client from config. The API key is read
// from the environment variable named in config, never stored in config
// files.
func NewClient(cfg Config, logger *log.Logger) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("%w: missing API key in env %s", domain.ErrConfiguration, cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-3.5-turbo"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		apiKey:      key,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxRetries:  retries,
		client:      &http.Client{Timeout: timeout},
		sleep:       time.Sleep,
		logger:      logger,
	}, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Generate sends the prompt as a system message and returns the first
// choice's text plus the raw payload. The raw payload is returned even when
// parsing fails, so the exchange log can capture malformed responses.
func (c *Client) Generate(ctx context.Context, prompt string) (domain.Generation, error) {
	if strings.TrimSpace(prompt) == "" {
		return domain.Generation{}, fmt.Errorf("%w: empty prompt", domain.ErrInvalidInput)
	}
	body, _ := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "system", Content: prompt}},
		Temperature: c.temperature,
	})
	url := c.baseURL + "/chat/completions"

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := retryDelay(attempt - 1)
			c.logger.Debug("retrying generation call", "attempt", attempt, "delay", delay)
			c.sleep(delay)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return domain.Generation{}, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return domain.Generation{}, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, ctx.Err())
			}
			lastErr = err
			continue
		}
		payload, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("backend returned %s", resp.Status)
			continue
		}
		if resp.StatusCode >= 300 {
			// Auth and bad-request failures will not heal on retry.
			return domain.Generation{Raw: payload},
				fmt.Errorf("%w: backend returned %s", domain.ErrBackendUnavailable, resp.Status)
		}
		if readErr != nil {
			lastErr = readErr
			continue
		}

		var parsed chatResponse
		if err := json.Unmarshal(payload, &parsed); err != nil {
			return domain.Generation{Raw: payload}, fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
		}
		if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
			return domain.Generation{Raw: payload}, fmt.Errorf("%w: no completion returned", domain.ErrInvalidResponse)
		}
		return domain.Generation{
			Text: strings.TrimSpace(parsed.Choices[0].Message.Content),
			Raw:  payload,
		}, nil
	}
	return domain.Generation{}, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, lastErr)
}

// retryDelay returns an exponential backoff delay capped at 5s.
func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := 200 * time.Millisecond
	d := base << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
