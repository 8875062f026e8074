package chatgpt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const defaultTimeout = 60 * time.Second

// Client is a thin wrapper around the OpenAI-compatible API.
type Client struct {
	api *openai.Client
}

// NewClient constructs a client. An empty baseURL targets api.openai.com.
func NewClient(apiKey, baseURL string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("chatgpt api key cannot be empty")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	cfg := openai.DefaultConfig(apiKey)
	if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
		cfg.BaseURL = strings.TrimRight(trimmed, "/")
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return &Client{api: openai.NewClientWithConfig(cfg)}, nil
}

// CreateChatCompletion triggers a sync chat call.
func (c *Client) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return openai.ChatCompletionResponse{}, fmt.Errorf("request chat completion: %w", err)
	}
	return resp, nil
}

// CreateEmbeddings requests one vector per input, returned in input order.
func (c *Client) CreateEmbeddings(ctx context.Context, model string, inputs []string) ([][]float32, error) {
	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: inputs,
		Model: openai.EmbeddingModel(model),
	})
	if err != nil {
		return nil, fmt.Errorf("request embeddings: %w", err)
	}
	data := resp.Data
	sort.SliceStable(data, func(i, j int) bool {
		return data[i].Index < data[j].Index
	})
	out := make([][]float32, 0, len(data))
	for _, item := range data {
		vec := make([]float32, len(item.Embedding))
		copy(vec, item.Embedding)
		out = append(out, vec)
	}
	return out, nil
}
