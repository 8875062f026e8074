package faq

import (
	"context"

	"github.com/yanqian/faq-assistant/pkg/metrics"
)

// Entry is a single question/answer pair from the knowledge base.
type Entry struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// Record is what a Source yields. Vector is optional and, when present, must come
// from the same embedding model used for queries.
type Record struct {
	Entry  Entry
	Vector []float32
}

// EmbeddedEntry pairs an entry with its embedding.
type EmbeddedEntry struct {
	Entry  Entry
	Vector []float32
}

// Candidate is a ranked retrieval hit.
type Candidate struct {
	Entry    Entry
	Position int
	Score    float64
}

// Source loads the raw knowledge base.
type Source interface {
	Load(ctx context.Context) ([]Record, error)
}

// Embedder produces embeddings for free form text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Generation is the output of a generative call.
type Generation struct {
	Text  string
	Usage metrics.TokenUsage
}

// Generator rephrases a stored answer for the user's question.
type Generator interface {
	Generate(ctx context.Context, query, passage string) (Generation, error)
}

// Outcome classifies how a query was resolved.
type Outcome string

const (
	OutcomeAnswered Outcome = "answered"
	OutcomeNotFound Outcome = "not_found"
)

// AnswerSource records where the final answer text came from.
type AnswerSource string

const (
	SourceLLM           AnswerSource = "llm"
	SourceKnowledgeBase AnswerSource = "knowledge_base"
	SourceNone          AnswerSource = "none"
)

// NotFoundMessage is shown when no stored answer is trusted.
const NotFoundMessage = "Sorry, I couldn't find an answer. Try rephrasing your question."

// Result is the retrieval outcome for one query.
type Result struct {
	Outcome         Outcome
	Answer          string
	MatchedQuestion string
	Score           float64
	Source          AnswerSource
	Usage           *metrics.TokenUsage
}
