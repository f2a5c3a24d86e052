package embedding

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks fieldservice-ai/internal/embedding Embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"fieldservice-ai/internal/contextutil"
	"fieldservice-ai/internal/service"
)

const (
	maxAttempts    = 3
	initialBackoff = 500 * time.Millisecond
)

// Embedder converts text into fixed-length numeric vectors.
type Embedder interface {
	// EmbedText generates an embedding for a single text (query embedding).
	EmbedText(ctx context.Context, text string) ([]float32, error)
	// EmbedTexts generates embeddings for a batch of texts, order-preserving,
	// one vector per input. Indexing issues one batched call per file.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Client is an OpenAI-compatible embeddings API client.
// Rate-limited requests are retried with exponential backoff; quota
// exhaustion is surfaced immediately as service.ErrQuotaExceeded so callers
// can apply their own fallback policy.
type Client struct {
	BaseURL      string
	APIKey       string
	Model        string
	ExpectedSize int // Expected vector size for validation
	client       *http.Client
	backoff      time.Duration
}

// NewClient creates a new embeddings client.
// expectedSize is the vector size the provider's model produces; all
// returned vectors are validated against it.
func NewClient(baseURL, apiKey, model string, expectedSize int) *Client {
	return &Client{
		BaseURL:      baseURL,
		APIKey:       apiKey,
		Model:        model,
		ExpectedSize: expectedSize,
		client:       http.DefaultClient,
		backoff:      initialBackoff,
	}
}

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingData struct {
	Embedding []float64 `json:"embedding"`
}

type embeddingsResponse struct {
	Data []embeddingData `json:"data"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// EmbedText generates an embedding for a single text.
func (c *Client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no embedding returned: %w", service.ErrProvider)
	}
	return vectors[0], nil
}

// EmbedTexts generates embeddings for the given texts.
// Returns one float32 vector per input, in input order.
func (c *Client) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if len(texts) == 0 {
		return nil, fmt.Errorf("empty input array: %w", service.ErrInvalidInput)
	}

	var lastErr error
	backoff := c.backoff
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		vectors, err := c.embed(ctx, texts)
		if err == nil {
			return vectors, nil
		}
		lastErr = err

		// Only rate limits are retryable; quota exhaustion and provider
		// failures are surfaced immediately.
		if !isRetryable(err) {
			return nil, err
		}

		if attempt == maxAttempts {
			break
		}
		logger.WarnContext(ctx, "embedding request rate limited, backing off",
			"attempt", attempt, "backoff", backoff.String())
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return nil, lastErr
}

func isRetryable(err error) bool {
	return errors.Is(err, service.ErrRateLimited)
}

func (c *Client) embed(ctx context.Context, texts []string) ([][]float32, error) {
	url := fmt.Sprintf("%s/v1/embeddings", c.BaseURL)

	body, err := json.Marshal(embeddingsRequest{Model: c.Model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w (%w)", err, service.ErrProvider)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, classifyHTTPError(resp.StatusCode, raw)
	}

	var embeddingsResp embeddingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&embeddingsResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w (%w)", err, service.ErrProvider)
	}

	if len(embeddingsResp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d: %w",
			len(texts), len(embeddingsResp.Data), service.ErrProvider)
	}

	result := make([][]float32, len(embeddingsResp.Data))
	for i, data := range embeddingsResp.Data {
		if c.ExpectedSize > 0 && len(data.Embedding) != c.ExpectedSize {
			return nil, fmt.Errorf("embedding %d has size %d, expected %d: %w",
				i, len(data.Embedding), c.ExpectedSize, service.ErrProvider)
		}
		vec := make([]float32, len(data.Embedding))
		for j, v := range data.Embedding {
			vec[j] = float32(v)
		}
		result[i] = vec
	}

	return result, nil
}

// classifyHTTPError maps provider HTTP failures onto the error taxonomy.
// 429 responses normally mean rate limiting, except when the provider
// reports insufficient quota, which must not be retried.
func classifyHTTPError(statusCode int, raw []byte) error {
	if statusCode == http.StatusTooManyRequests {
		var apiErr apiError
		if err := json.Unmarshal(raw, &apiErr); err == nil {
			if apiErr.Error.Code == "insufficient_quota" || apiErr.Error.Type == "insufficient_quota" {
				return fmt.Errorf("provider reported insufficient quota: %w", service.ErrQuotaExceeded)
			}
		}
		return fmt.Errorf("bad status %d: %s: %w", statusCode, string(raw), service.ErrRateLimited)
	}
	return fmt.Errorf("bad status %d: %s: %w", statusCode, string(raw), service.ErrProvider)
}
