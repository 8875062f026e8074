package assistant

import (
	"context"

	"github.com/yanqian/faq-assistant/internal/domain/faq"
	"github.com/yanqian/faq-assistant/pkg/metrics"
)

// Outcome classifies how a query was resolved.
type Outcome string

const (
	OutcomeIntent   Outcome = "intent"
	OutcomeAnswered Outcome = Outcome(faq.OutcomeAnswered)
	OutcomeNotFound Outcome = Outcome(faq.OutcomeNotFound)
)

// SourceIntent marks answers produced by the intent router.
const SourceIntent = "intent"

// Request is the payload accepted by the assistant.
type Request struct {
	Question string `json:"question"`
}

// Response is returned to HTTP and CLI callers.
type Response struct {
	Query           string              `json:"query"`
	Outcome         Outcome             `json:"outcome"`
	Intent          string              `json:"intent,omitempty"`
	Answer          string              `json:"answer"`
	MatchedQuestion string              `json:"matchedQuestion,omitempty"`
	Score           *float64            `json:"score,omitempty"`
	Source          string              `json:"source"`
	Recommendations []TrendingQuery     `json:"recommendations,omitempty"`
	TokenUsage      *metrics.TokenUsage `json:"tokenUsage,omitempty"`
	DurationMs      int64               `json:"durationMs"`
}

// TrendingQuery is a popular question and how often it was asked.
type TrendingQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// Store keeps query counters for trending recommendations.
type Store interface {
	IncrementQuery(ctx context.Context, canonical, display string) error
	TopQueries(ctx context.Context, limit int) ([]TrendingQuery, error)
}

// Config controls recommendation output.
type Config struct {
	TopRecommendations int
}
