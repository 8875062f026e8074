package faq

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// Service answers free-text questions from the knowledge base.
type Service interface {
	Answer(ctx context.Context, question string) (Result, error)
	Entries() []Entry
}

type service struct {
	cfg      Config
	kb       *KnowledgeBase
	embedder Embedder
	selector *Selector
	logger   *slog.Logger
}

// NewService wires up the FAQ domain.
func NewService(cfg Config, kb *KnowledgeBase, embedder Embedder, generator Generator, logger *slog.Logger) Service {
	cfg = cfg.withDefaults()
	return &service{
		cfg:      cfg,
		kb:       kb,
		embedder: embedder,
		selector: NewSelector(cfg.SimilarityThreshold, cfg.GenerateTimeout, generator, logger),
		logger:   logger.With("component", "faq.service"),
	}
}

// Answer embeds the question, ranks the knowledge base and applies the selection
// policy. Embedding and index failures degrade to a not-found result; only a
// cancelled caller context is returned as an error.
func (s *service) Answer(ctx context.Context, question string) (Result, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return notFound(), nil
	}

	vector, err := s.embedQuery(ctx, question)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		s.logger.Warn("query embedding failed", "error", err)
		return notFound(), nil
	}

	candidates, err := s.kb.Index().Query(vector, s.cfg.TopK)
	if err != nil {
		var dimErr *DimensionMismatchError
		if errors.As(err, &dimErr) {
			s.logger.Error("query vector does not match index", "expected", dimErr.Expected, "actual", dimErr.Actual)
		} else {
			s.logger.Error("similarity query failed", "error", err)
		}
		return notFound(), nil
	}
	if len(candidates) > 0 {
		s.logger.Debug("faq candidates ranked", "top_question", candidates[0].Entry.Question, "top_score", candidates[0].Score, "count", len(candidates))
	}

	res := s.selector.Select(ctx, question, candidates)
	if res.Outcome == OutcomeNotFound && len(candidates) > 0 {
		s.logger.Info("faq match below threshold", "top_score", candidates[0].Score, "threshold", s.selector.Threshold())
	}
	return res, nil
}

func (s *service) Entries() []Entry {
	return s.kb.Entries()
}

func (s *service) embedQuery(ctx context.Context, question string) ([]float32, error) {
	embedCtx, cancel := context.WithTimeout(ctx, s.cfg.EmbedTimeout)
	defer cancel()

	vectors, err := s.embedder.Embed(embedCtx, []string{question})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, errors.New("embedding response empty")
	}
	return vectors[0], nil
}
