package faq_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/faq-assistant/internal/domain/faq"
	"github.com/yanqian/faq-assistant/internal/infra/embedder"
	apperrors "github.com/yanqian/faq-assistant/pkg/errors"
)

func TestEveryEntryRetrievesItself(t *testing.T) {
	kb := newBuiltinKnowledgeBase(t)

	for pos, entry := range kb.Entries() {
		vectors, err := embedder.NewHashingEmbedder(0).Embed(context.Background(), []string{entry.Question})
		require.NoError(t, err)

		got, err := kb.Index().Query(vectors[0], 3)
		require.NoError(t, err)
		require.NotEmpty(t, got)
		require.Equal(t, pos, got[0].Position, entry.Question)
		require.Equal(t, entry, got[0].Entry)
		require.Greater(t, got[0].Score, faq.DefaultSimilarityThreshold)
	}
}

func TestAirportParaphraseMatches(t *testing.T) {
	svc := newService(t, nil, faq.Config{SimilarityThreshold: faq.DefaultSimilarityThreshold})

	res, err := svc.Answer(context.Background(), "Where's the airport?")
	require.NoError(t, err)
	require.Equal(t, faq.OutcomeAnswered, res.Outcome)
	require.Equal(t, "Where is the airport located?", res.MatchedQuestion)
	require.True(t, strings.Contains(res.Answer, "Sahar") || strings.Contains(res.Answer, "Andheri"))
}

func TestAnswerBlankQueryIsNotFound(t *testing.T) {
	gen := &recordingGenerator{}
	svc := newService(t, gen, faq.Config{SimilarityThreshold: 0.1})

	for _, q := range []string{"", "   ", "\n\t"} {
		res, err := svc.Answer(context.Background(), q)
		require.NoError(t, err)
		require.Equal(t, faq.OutcomeNotFound, res.Outcome)
		require.Equal(t, faq.NotFoundMessage, res.Answer)
	}
	require.Zero(t, gen.calls)
}

func TestAnswerGeneratorFailureReturnsStoredAnswer(t *testing.T) {
	gen := &recordingGenerator{err: errors.New("model unavailable")}
	svc := newService(t, gen, faq.Config{SimilarityThreshold: 0.3, GenerateTimeout: time.Second})

	res, err := svc.Answer(context.Background(), "Where is the airport located?")
	require.NoError(t, err)
	require.Equal(t, faq.OutcomeAnswered, res.Outcome)
	require.Equal(t, faq.SourceKnowledgeBase, res.Source)
	require.Equal(t, "Chhatrapati Shivaji Maharaj International Airport is located in Sahar, Andheri East, Mumbai.", res.Answer)
	require.Equal(t, 1, gen.calls)
}

func TestAnswerGeneratorSuccess(t *testing.T) {
	gen := &recordingGenerator{text: "It is in Sahar."}
	svc := newService(t, gen, faq.Config{SimilarityThreshold: 0.3})

	res, err := svc.Answer(context.Background(), "local cuisine in Mumbai")
	require.NoError(t, err)
	require.Equal(t, faq.SourceLLM, res.Source)
	require.Equal(t, "It is in Sahar.", res.Answer)
	require.Equal(t, "Tell me about local cuisine in Mumbai", res.MatchedQuestion)
	require.Equal(t, "Famous foods include Vada Pav, Pav Bhaji, Bhel Puri, Misal Pav, and Bombay Sandwich.", gen.lastPassage)
}

func TestAnswerBelowThresholdNeverGenerates(t *testing.T) {
	gen := &recordingGenerator{text: "nope"}
	svc := newService(t, gen, faq.Config{SimilarityThreshold: 0.95})

	res, err := svc.Answer(context.Background(), "Where's the airport?")
	require.NoError(t, err)
	require.Equal(t, faq.OutcomeNotFound, res.Outcome)
	require.Zero(t, gen.calls)
}

func TestAnswerEmbeddingFailureIsNotFound(t *testing.T) {
	kb := newBuiltinKnowledgeBase(t)
	svc := faq.NewService(faq.Config{SimilarityThreshold: 0.1}, kb, failingEmbedder{}, nil, discardLogger())

	res, err := svc.Answer(context.Background(), "Where's the airport?")
	require.NoError(t, err)
	require.Equal(t, faq.OutcomeNotFound, res.Outcome)
}

func TestAnswerCancelledContext(t *testing.T) {
	kb := newBuiltinKnowledgeBase(t)
	svc := faq.NewService(faq.Config{}, kb, failingEmbedder{}, nil, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Answer(ctx, "Where's the airport?")
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewKnowledgeBaseFailures(t *testing.T) {
	tests := []struct {
		name     string
		source   faq.Source
		embedder faq.Embedder
		check    func(t *testing.T, err error)
	}{
		{
			name:     "empty source",
			source:   staticSource{},
			embedder: embedder.NewHashingEmbedder(8),
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, faq.ErrEmptyKnowledgeBase)
			},
		},
		{
			name:     "blank answer",
			source:   staticSource{records: []faq.Record{{Entry: faq.Entry{Question: "q", Answer: " "}}}},
			embedder: embedder.NewHashingEmbedder(8),
			check: func(t *testing.T, err error) {
				require.True(t, apperrors.IsCode(err, "knowledge_base_error"))
			},
		},
		{
			name: "mixed dimensions",
			source: staticSource{records: []faq.Record{
				{Entry: faq.Entry{Question: "q1", Answer: "a1"}, Vector: []float32{1, 0, 0}},
				{Entry: faq.Entry{Question: "q2", Answer: "a2"}},
			}},
			embedder: embedder.NewHashingEmbedder(8),
			check: func(t *testing.T, err error) {
				var dimErr *faq.DimensionMismatchError
				require.True(t, errors.As(err, &dimErr))
				require.Equal(t, 3, dimErr.Expected)
				require.Equal(t, 8, dimErr.Actual)
				require.True(t, apperrors.IsCode(err, "dimension_mismatch"))
			},
		},
		{
			name:     "embedder failure",
			source:   faq.BuiltinSource{},
			embedder: failingEmbedder{},
			check: func(t *testing.T, err error) {
				require.True(t, apperrors.IsCode(err, "embedding_error"))
			},
		},
		{
			name:     "source failure",
			source:   staticSource{err: errors.New("disk gone")},
			embedder: embedder.NewHashingEmbedder(8),
			check: func(t *testing.T, err error) {
				require.True(t, apperrors.IsCode(err, "knowledge_base_error"))
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := faq.NewKnowledgeBase(context.Background(), tt.source, tt.embedder, 2, discardLogger())
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestNewKnowledgeBaseKeepsPrecomputedVectors(t *testing.T) {
	emb := &countingEmbedder{inner: embedder.NewHashingEmbedder(4)}
	kb, err := faq.NewKnowledgeBase(context.Background(), staticSource{records: []faq.Record{
		{Entry: faq.Entry{Question: " q1 ", Answer: " a1 "}, Vector: []float32{1, 0, 0, 0}},
		{Entry: faq.Entry{Question: "q2", Answer: "a2"}},
	}}, emb, 0, discardLogger())
	require.NoError(t, err)
	require.Equal(t, 1, emb.calls)
	require.Equal(t, []faq.Entry{{Question: "q1", Answer: "a1"}, {Question: "q2", Answer: "a2"}}, kb.Entries())
	require.Equal(t, 4, kb.Index().Dimension())
}

func TestNewKnowledgeBaseEmbedsInBatches(t *testing.T) {
	emb := &countingEmbedder{inner: embedder.NewHashingEmbedder(0)}
	_, err := faq.NewKnowledgeBase(context.Background(), faq.BuiltinSource{}, emb, 4, discardLogger())
	require.NoError(t, err)
	require.Equal(t, 1, emb.calls)
	require.Equal(t, []int{7}, emb.batches)

	records := make([]faq.Record, 100)
	for i := range records {
		records[i] = faq.Record{Entry: faq.Entry{Question: fmt.Sprintf("question %d", i), Answer: "answer"}}
	}
	emb = &countingEmbedder{inner: embedder.NewHashingEmbedder(16)}
	kb, err := faq.NewKnowledgeBase(context.Background(), staticSource{records: records}, emb, 4, discardLogger())
	require.NoError(t, err)
	require.Equal(t, 100, kb.Index().Len())
	require.Equal(t, 2, emb.calls)
	require.ElementsMatch(t, []int{64, 36}, emb.batches)
}

func TestNewKnowledgeBaseRejectsShortEmbedding(t *testing.T) {
	_, err := faq.NewKnowledgeBase(context.Background(), faq.BuiltinSource{}, shortEmbedder{}, 1, discardLogger())
	require.True(t, apperrors.IsCode(err, "embedding_error"))
}

func newBuiltinKnowledgeBase(t *testing.T) *faq.KnowledgeBase {
	t.Helper()
	kb, err := faq.NewKnowledgeBase(context.Background(), faq.BuiltinSource{}, embedder.NewHashingEmbedder(0), 4, discardLogger())
	require.NoError(t, err)
	require.Equal(t, 7, kb.Index().Len())
	return kb
}

func newService(t *testing.T, gen faq.Generator, cfg faq.Config) faq.Service {
	t.Helper()
	return faq.NewService(cfg, newBuiltinKnowledgeBase(t), embedder.NewHashingEmbedder(0), gen, discardLogger())
}

type staticSource struct {
	records []faq.Record
	err     error
}

func (s staticSource) Load(context.Context) ([]faq.Record, error) {
	return s.records, s.err
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("embedding service down")
}

type countingEmbedder struct {
	inner   faq.Embedder
	mu      sync.Mutex
	calls   int
	batches []int
}

func (c *countingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	c.mu.Lock()
	c.calls++
	c.batches = append(c.batches, len(texts))
	c.mu.Unlock()
	return c.inner.Embed(ctx, texts)
}

type shortEmbedder struct{}

func (shortEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	return [][]float32{{1}}, nil
}

type recordingGenerator struct {
	text        string
	err         error
	calls       int
	lastPassage string
}

func (g *recordingGenerator) Generate(_ context.Context, _ string, passage string) (faq.Generation, error) {
	g.calls++
	g.lastPassage = passage
	if g.err != nil {
		return faq.Generation{}, g.err
	}
	return faq.Generation{Text: g.text}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
