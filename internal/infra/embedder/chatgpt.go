package embedder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"

	"github.com/yanqian/faq-assistant/internal/domain/faq"
)

const maxBatchTokens = 200_000 // stay well below provider's 300k cap

type embeddingClient interface {
	CreateEmbeddings(ctx context.Context, model string, inputs []string) ([][]float32, error)
}

// ChatGPTEmbedder calls an OpenAI-compatible embeddings API.
type ChatGPTEmbedder struct {
	client embeddingClient
	model  string
	count  func(string) int
	logger *slog.Logger
}

// NewChatGPTEmbedder constructs an embedder backed by the ChatGPT client.
func NewChatGPTEmbedder(client embeddingClient, model string, logger *slog.Logger) *ChatGPTEmbedder {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatGPTEmbedder{
		client: client,
		model:  strings.TrimSpace(model),
		count:  countTokens,
		logger: logger.With("component", "embedder.chatgpt"),
	}
}

// Embed requests embeddings for the given texts, batching by token budget.
func (e *ChatGPTEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	var (
		out         [][]float32
		batch       []string
		batchTokens int
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		vectors, err := e.client.CreateEmbeddings(ctx, e.model, batch)
		if err != nil {
			return fmt.Errorf("create embedding: %w", err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("embedding result count mismatch: expected %d got %d", len(batch), len(vectors))
		}
		out = append(out, vectors...)
		batch = nil
		batchTokens = 0
		return nil
	}

	for _, text := range texts {
		tokens := e.count(text)
		if tokens > maxBatchTokens {
			return nil, fmt.Errorf("text too large for embedding request: tokens=%d", tokens)
		}
		if batchTokens+tokens > maxBatchTokens && len(batch) > 0 {
			if err := flush(); err != nil {
				return nil, err
			}
		}
		batch = append(batch, text)
		batchTokens += tokens
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}

var _ faq.Embedder = (*ChatGPTEmbedder)(nil)

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

// countTokens uses the cl100k_base encoding when it can be loaded and an
// upper-biased rune estimate otherwise.
func countTokens(text string) int {
	encodingOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			encoding = enc
		}
	})
	if encoding != nil {
		return len(encoding.Encode(text, nil, nil))
	}
	return estimateTokens(text)
}

func estimateTokens(text string) int {
	if text == "" {
		return 0
	}
	byRunes := (utf8.RuneCountInString(text) + 1) / 2
	if words := len(strings.Fields(text)); byRunes < words {
		return words
	}
	return byRunes
}
