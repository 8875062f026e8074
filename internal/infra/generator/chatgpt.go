package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/yanqian/faq-assistant/internal/domain/faq"
	apperrors "github.com/yanqian/faq-assistant/pkg/errors"
	"github.com/yanqian/faq-assistant/pkg/metrics"
)

const defaultPrompt = "You are a helpful FAQ assistant. Answer the user's question using only the provided context. Keep the answer short."

type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ChatGPTGenerator rephrases stored answers with a chat model.
type ChatGPTGenerator struct {
	client      chatClient
	model       string
	temperature float32
	prompt      string
}

// NewChatGPTGenerator constructs the adapter.
func NewChatGPTGenerator(client chatClient, model string, temperature float32, prompt string) *ChatGPTGenerator {
	if strings.TrimSpace(prompt) == "" {
		prompt = defaultPrompt
	}
	return &ChatGPTGenerator{client: client, model: model, temperature: temperature, prompt: prompt}
}

// Generate asks the model to answer query from passage.
func (g *ChatGPTGenerator) Generate(ctx context.Context, query, passage string) (faq.Generation, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: g.prompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Context: %s\n\nQuestion: %s\nAnswer:", passage, query)},
		},
	})
	if err != nil {
		return faq.Generation{}, apperrors.Wrap("llm_error", "chatgpt request failed", err)
	}
	if len(resp.Choices) == 0 {
		return faq.Generation{}, apperrors.Wrap("llm_error", "chatgpt returned no choices", errors.New("empty choices"))
	}
	return faq.Generation{
		Text: strings.TrimSpace(resp.Choices[0].Message.Content),
		Usage: metrics.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

var _ faq.Generator = (*ChatGPTGenerator)(nil)

// Passthrough returns the stored answer unchanged; used when no model is configured.
type Passthrough struct{}

// Generate returns passage verbatim.
func (Passthrough) Generate(_ context.Context, _ string, passage string) (faq.Generation, error) {
	return faq.Generation{Text: passage}, nil
}

var _ faq.Generator = Passthrough{}
