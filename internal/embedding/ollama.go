package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/IgorPBorja/rag-for-competitive-programming/internal/config"
)

const ollamaProvider = "ollama"

// OllamaClient implements Client against the ollama /api/embed endpoint
type OllamaClient struct {
	endpoint string
	model    string
	client   *http.Client
}

// ollamaEmbedRequest is the request format for the ollama embed API
type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// ollamaEmbedResponse is the response from the ollama embed API
type ollamaEmbedResponse struct {
	Model      string      `json:"model"`
	Embeddings [][]float32 `json:"embeddings"`
}

// NewOllamaClient creates a new ollama embedding client
func NewOllamaClient(cfg *config.EmbeddingConfig) (*OllamaClient, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("embedding model is required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "http://localhost:11434"
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &OllamaClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		model:    cfg.Model,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Model returns the model name this client embeds with
func (c *OllamaClient) Model() string {
	return c.model
}

// Embed generates an embedding for a single text
func (c *OllamaClient) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, providerErrorf(ollamaProvider, "no embedding returned")
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one provider call
func (c *OllamaClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	req := ollamaEmbedRequest{
		Model: c.model,
		Input: texts,
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST",
		c.endpoint+"/api/embed", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &ProviderError{Provider: ollamaProvider, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{Provider: ollamaProvider, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, providerErrorf(ollamaProvider, "API returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp ollamaEmbedResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, &ProviderError{Provider: ollamaProvider, Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	if len(apiResp.Embeddings) != len(texts) {
		return nil, providerErrorf(ollamaProvider, "expected %d embeddings, got %d", len(texts), len(apiResp.Embeddings))
	}

	return apiResp.Embeddings, nil
}
