// Package embedding adapts a remote OpenAI-compatible text-embedding API to
// the domain Embedder interface. Every call is independent: no caching and
// no retries here, retry policy belongs to the caller.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/sashabaranov/go-openai"

	"hostelhaven/internal/domain"
)

// Client embeds text through an OpenAI-compatible /embeddings endpoint.
// Works with any provider speaking that protocol when given a base URL.
type Client struct {
	api        *openai.Client
	model      string
	dimensions int
}

// Config configures the embedding client. APIKeyEnv names the environment
// variable holding the key.
type Config struct {
	BaseURL    string
	APIKeyEnv  string
	Model      string
	Dimensions int
}

// NewClient builds a Client. A missing API key is a startup error, not a
// per-request one.
func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("embedding: missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.Model == "" {
		return nil, errors.New("embedding: model is required")
	}
	if cfg.Dimensions <= 0 {
		return nil, errors.New("embedding: dimensions must be positive")
	}
	clientConfig := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &Client{
		api:        openai.NewClientWithConfig(clientConfig),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}, nil
}

// Dimensions returns the configured vector dimension.
func (c *Client) Dimensions() int { return c.dimensions }

// Embed returns the vector for a single text. The caller guarantees text is
// non-empty; empty queries are rejected before reaching this adapter.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      []string{text},
		Model:      openai.EmbeddingModel(c.model),
		Dimensions: c.dimensions,
	})
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding payload", domain.ErrProviderMalformedResponse)
	}
	vec := resp.Data[0].Embedding
	if len(vec) != c.dimensions {
		return nil, fmt.Errorf("%w: got %d dimensions, want %d",
			domain.ErrProviderMalformedResponse, len(vec), c.dimensions)
	}
	return vec, nil
}

func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %v", domain.ErrProviderRateLimited, err)
		}
		return fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	// Transport, DNS, auth handshake, context timeout.
	return fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
}
