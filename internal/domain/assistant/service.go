package assistant

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/faq-assistant/internal/domain/faq"
	"github.com/yanqian/faq-assistant/internal/domain/intent"
)

const defaultTopRecommendations = 5

// Router answers reserved intents without retrieval.
type Router interface {
	Route(ctx context.Context, query string) (intent.Reply, bool)
}

// Service resolves one user query end to end.
type Service interface {
	Ask(ctx context.Context, req Request) (Response, error)
	Trending(ctx context.Context) ([]TrendingQuery, error)
	Entries() []faq.Entry
}

type service struct {
	cfg    Config
	router Router
	faq    faq.Service
	store  Store
	logger *slog.Logger
}

// NewService wires the assistant. store may be nil, which disables trending.
func NewService(cfg Config, router Router, faqSvc faq.Service, store Store, logger *slog.Logger) Service {
	if cfg.TopRecommendations <= 0 {
		cfg.TopRecommendations = defaultTopRecommendations
	}
	return &service{
		cfg:    cfg,
		router: router,
		faq:    faqSvc,
		store:  store,
		logger: logger.With("component", "assistant.service"),
	}
}

// Ask routes reserved intents first and falls back to the knowledge base.
func (s *service) Ask(ctx context.Context, req Request) (Response, error) {
	start := time.Now()
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return Response{
			Outcome:    OutcomeNotFound,
			Answer:     faq.NotFoundMessage,
			Source:     string(faq.SourceNone),
			DurationMs: time.Since(start).Milliseconds(),
		}, nil
	}

	var resp Response
	if reply, ok := s.router.Route(ctx, question); ok {
		resp = Response{
			Outcome: OutcomeIntent,
			Intent:  string(reply.Intent),
			Answer:  reply.Text,
			Source:  SourceIntent,
		}
		s.logger.Info("intent answered", "intent", reply.Intent, "degraded", reply.Degraded)
	} else {
		res, err := s.faq.Answer(ctx, question)
		if err != nil {
			return Response{}, err
		}
		resp = fromResult(res)
		s.logger.Info("faq resolved", "outcome", res.Outcome, "source", res.Source, "score", res.Score)
	}
	resp.Query = question

	s.recordQuery(ctx, question)
	resp.Recommendations = s.recommendations(ctx)
	resp.DurationMs = time.Since(start).Milliseconds()
	return resp, nil
}

// Trending returns the most frequently asked questions.
func (s *service) Trending(ctx context.Context) ([]TrendingQuery, error) {
	if s.store == nil {
		return []TrendingQuery{}, nil
	}
	items, err := s.store.TopQueries(ctx, s.cfg.TopRecommendations)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []TrendingQuery{}
	}
	return items, nil
}

// Entries lists the knowledge base for quick links.
func (s *service) Entries() []faq.Entry {
	return s.faq.Entries()
}

func (s *service) recordQuery(ctx context.Context, question string) {
	if s.store == nil {
		return
	}
	canonical := faq.NormalizeQuestion(question)
	if canonical == "" {
		return
	}
	if err := s.store.IncrementQuery(ctx, canonical, question); err != nil {
		s.logger.Warn("failed to record query", "error", err)
	}
}

func (s *service) recommendations(ctx context.Context) []TrendingQuery {
	if s.store == nil {
		return nil
	}
	items, err := s.store.TopQueries(ctx, s.cfg.TopRecommendations)
	if err != nil {
		s.logger.Warn("failed to load recommendations", "error", err)
		return nil
	}
	return items
}

func fromResult(res faq.Result) Response {
	resp := Response{
		Outcome:         Outcome(res.Outcome),
		Answer:          res.Answer,
		MatchedQuestion: res.MatchedQuestion,
		Source:          string(res.Source),
		TokenUsage:      res.Usage,
	}
	if res.Outcome == faq.OutcomeAnswered {
		score := res.Score
		resp.Score = &score
	}
	return resp
}
