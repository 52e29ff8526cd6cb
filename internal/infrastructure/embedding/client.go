package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/nutrilabel/backend/internal/domain"
)

// Client calls an OpenAI-style /embeddings endpoint to turn text into a
// fixed-length vector.
type Client struct {
	resty  *resty.Client
	model  string
	logger *zap.Logger
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// NewClient creates a new embedding service client.
func NewClient(baseURL, apiKey, model string, logger *zap.Logger) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		rc.SetAuthToken(apiKey)
	}

	return &Client{
		resty:  rc,
		model:  model,
		logger: logger,
	}
}

// Embed returns the embedding vector for one text string.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	var result embeddingResponse

	resp, err := c.resty.R().
		SetContext(ctx).
		SetBody(embeddingRequest{Model: c.model, Input: []string{text}}).
		SetResult(&result).
		Post("/embeddings")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}
	if resp.IsError() {
		c.logger.Warn("embedding service returned non-success status",
			zap.Int("status", resp.StatusCode()))
		return nil, fmt.Errorf("%w: status %d", domain.ErrEmbeddingUnavailable, resp.StatusCode())
	}
	if len(result.Data) == 0 || len(result.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding payload", domain.ErrEmbeddingUnavailable)
	}

	return result.Data[0].Embedding, nil
}
