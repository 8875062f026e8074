package faq

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Selector turns ranked candidates into a final answer.
type Selector struct {
	threshold float64
	timeout   time.Duration
	generator Generator
	logger    *slog.Logger
}

// NewSelector builds a selector. A nil generator means stored answers are returned verbatim.
func NewSelector(threshold float64, timeout time.Duration, generator Generator, logger *slog.Logger) *Selector {
	if timeout <= 0 {
		timeout = defaultGenerateTimeout
	}
	return &Selector{
		threshold: threshold,
		timeout:   timeout,
		generator: generator,
		logger:    logger.With("component", "faq.selector"),
	}
}

// Threshold returns the acceptance threshold.
func (s *Selector) Threshold() float64 {
	return s.threshold
}

// Select applies the acceptance policy. It never returns an error: generative
// failures degrade to the stored answer.
func (s *Selector) Select(ctx context.Context, query string, candidates []Candidate) Result {
	if len(candidates) == 0 || !(candidates[0].Score >= s.threshold) {
		return notFound()
	}

	top := candidates[0]
	res := Result{
		Outcome:         OutcomeAnswered,
		Answer:          top.Entry.Answer,
		MatchedQuestion: top.Entry.Question,
		Score:           top.Score,
		Source:          SourceKnowledgeBase,
	}
	if s.generator == nil {
		return res
	}

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	gen, err := s.generator.Generate(genCtx, query, top.Entry.Answer)
	if err != nil {
		s.logger.Warn("generation failed, using stored answer", "error", err, "matched_question", top.Entry.Question)
		return res
	}
	text := strings.TrimSpace(gen.Text)
	if text == "" {
		s.logger.Warn("generation returned empty text, using stored answer", "matched_question", top.Entry.Question)
		return res
	}

	res.Answer = text
	res.Source = SourceLLM
	res.Usage = gen.Usage.OrNil()
	return res
}

func notFound() Result {
	return Result{
		Outcome: OutcomeNotFound,
		Answer:  NotFoundMessage,
		Source:  SourceNone,
	}
}
