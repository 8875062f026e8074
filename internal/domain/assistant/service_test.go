package assistant

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/faq-assistant/internal/domain/faq"
	"github.com/yanqian/faq-assistant/internal/domain/intent"
	"github.com/yanqian/faq-assistant/pkg/metrics"
)

func TestAskIntentSkipsRetrieval(t *testing.T) {
	faqSvc := &stubFAQ{}
	store := &stubStore{}
	router := intent.NewRouter(intent.Rule{
		Intent:   intent.IntentDate,
		Keywords: []string{"date"},
		Handle: func(context.Context, string) intent.Reply {
			return intent.Reply{Text: "Today's date: 17-10-2026"}
		},
	})
	svc := NewService(Config{}, router, faqSvc, store, discardLogger())

	resp, err := svc.Ask(context.Background(), Request{Question: " What's the DATE today? "})
	require.NoError(t, err)
	require.Equal(t, OutcomeIntent, resp.Outcome)
	require.Equal(t, "date", resp.Intent)
	require.Equal(t, SourceIntent, resp.Source)
	require.Equal(t, "Today's date: 17-10-2026", resp.Answer)
	require.Equal(t, "What's the DATE today?", resp.Query)
	require.Nil(t, resp.Score)
	require.Zero(t, faqSvc.calls)
	require.Equal(t, []string{"what s the date today"}, store.canonical)
}

func TestAskFallsBackToKnowledgeBase(t *testing.T) {
	usage := &metrics.TokenUsage{PromptTokens: 10, TotalTokens: 12}
	faqSvc := &stubFAQ{result: faq.Result{
		Outcome:         faq.OutcomeAnswered,
		Answer:          "It is in Sahar.",
		MatchedQuestion: "Where is the airport located?",
		Score:           0.82,
		Source:          faq.SourceLLM,
		Usage:           usage,
	}}
	store := &stubStore{top: []TrendingQuery{{Query: "Where's the airport?", Count: 3}}}
	svc := NewService(Config{TopRecommendations: 2}, intent.NewRouter(), faqSvc, store, discardLogger())

	resp, err := svc.Ask(context.Background(), Request{Question: "Where's the airport?"})
	require.NoError(t, err)
	require.Equal(t, OutcomeAnswered, resp.Outcome)
	require.Equal(t, "llm", resp.Source)
	require.NotNil(t, resp.Score)
	require.InDelta(t, 0.82, *resp.Score, 1e-9)
	require.Equal(t, usage, resp.TokenUsage)
	require.Equal(t, store.top, resp.Recommendations)
	require.Equal(t, 2, store.lastLimit)
	require.Equal(t, "Where's the airport?", faqSvc.lastQuestion)
}

func TestAskBlankQuestion(t *testing.T) {
	faqSvc := &stubFAQ{}
	store := &stubStore{}
	svc := NewService(Config{}, intent.NewRouter(), faqSvc, store, discardLogger())

	resp, err := svc.Ask(context.Background(), Request{Question: "  \t"})
	require.NoError(t, err)
	require.Equal(t, OutcomeNotFound, resp.Outcome)
	require.Equal(t, faq.NotFoundMessage, resp.Answer)
	require.Equal(t, "none", resp.Source)
	require.Zero(t, faqSvc.calls)
	require.Empty(t, store.canonical)
}

func TestAskStoreFailuresAreIgnored(t *testing.T) {
	faqSvc := &stubFAQ{result: faq.Result{Outcome: faq.OutcomeNotFound, Answer: faq.NotFoundMessage, Source: faq.SourceNone}}
	store := &stubStore{err: errors.New("valkey down")}
	svc := NewService(Config{}, intent.NewRouter(), faqSvc, store, discardLogger())

	resp, err := svc.Ask(context.Background(), Request{Question: "tell me a joke"})
	require.NoError(t, err)
	require.Equal(t, OutcomeNotFound, resp.Outcome)
	require.Nil(t, resp.Score)
	require.Empty(t, resp.Recommendations)
}

func TestAskPropagatesCancellation(t *testing.T) {
	svc := NewService(Config{}, intent.NewRouter(), &stubFAQ{err: context.Canceled}, nil, discardLogger())
	_, err := svc.Ask(context.Background(), Request{Question: "anything"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestTrending(t *testing.T) {
	svc := NewService(Config{}, intent.NewRouter(), &stubFAQ{}, nil, discardLogger())
	items, err := svc.Trending(context.Background())
	require.NoError(t, err)
	require.Empty(t, items)

	store := &stubStore{top: []TrendingQuery{{Query: "a", Count: 1}}}
	svc = NewService(Config{}, intent.NewRouter(), &stubFAQ{}, store, discardLogger())
	items, err = svc.Trending(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, defaultTopRecommendations, store.lastLimit)
}

func TestAskMeasuresDuration(t *testing.T) {
	faqSvc := &stubFAQ{delay: 5 * time.Millisecond, result: faq.Result{Outcome: faq.OutcomeNotFound, Source: faq.SourceNone}}
	svc := NewService(Config{}, intent.NewRouter(), faqSvc, nil, discardLogger())
	resp, err := svc.Ask(context.Background(), Request{Question: "slow"})
	require.NoError(t, err)
	require.GreaterOrEqual(t, resp.DurationMs, int64(5))
}

type stubFAQ struct {
	result       faq.Result
	err          error
	delay        time.Duration
	calls        int
	lastQuestion string
}

func (s *stubFAQ) Answer(_ context.Context, question string) (faq.Result, error) {
	s.calls++
	s.lastQuestion = question
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.result, s.err
}

func (s *stubFAQ) Entries() []faq.Entry {
	return []faq.Entry{{Question: "q", Answer: "a"}}
}

type stubStore struct {
	canonical []string
	top       []TrendingQuery
	err       error
	lastLimit int
}

func (s *stubStore) IncrementQuery(_ context.Context, canonical, _ string) error {
	if s.err != nil {
		return s.err
	}
	s.canonical = append(s.canonical, canonical)
	return nil
}

func (s *stubStore) TopQueries(_ context.Context, limit int) ([]TrendingQuery, error) {
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.top, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
