package querystats

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/faq-assistant/internal/domain/assistant"
)

const defaultLimit = 10

// ValkeyStore keeps query counters in a Valkey sorted set.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a store. prefix namespaces every key.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "faq"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// IncrementQuery implements assistant.Store.
func (s *ValkeyStore) IncrementQuery(ctx context.Context, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	incr := s.client.B().Zincrby().Key(s.trendingKey()).Increment(1).Member(canonical).Build()
	if err := s.client.Do(ctx, incr).Error(); err != nil {
		return fmt.Errorf("increment query counter: %w", err)
	}
	if display != "" {
		// best effort; the canonical form is shown when missing
		_ = s.client.Do(ctx, s.client.B().Set().Key(s.displayKey(canonical)).Value(display).Nx().Build()).Error()
	}
	return nil
}

// TopQueries implements assistant.Store.
func (s *ValkeyStore) TopQueries(ctx context.Context, limit int) ([]assistant.TrendingQuery, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	cmd := s.client.B().Zrevrange().Key(s.trendingKey()).Start(0).Stop(int64(limit - 1)).Withscores().Build()
	scores, err := s.client.Do(ctx, cmd).AsZScores()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return []assistant.TrendingQuery{}, nil
		}
		return nil, fmt.Errorf("read trending queries: %w", err)
	}
	out := make([]assistant.TrendingQuery, 0, len(scores))
	for _, z := range scores {
		out = append(out, assistant.TrendingQuery{Query: s.display(ctx, z.Member), Count: int64(z.Score)})
	}
	return out, nil
}

func (s *ValkeyStore) display(ctx context.Context, canonical string) string {
	value, err := s.client.Do(ctx, s.client.B().Get().Key(s.displayKey(canonical)).Build()).ToString()
	if err != nil {
		return canonical
	}
	return displayOr(value, canonical)
}

func (s *ValkeyStore) trendingKey() string {
	return s.prefix + ":trending"
}

func (s *ValkeyStore) displayKey(canonical string) string {
	return s.prefix + ":display:" + canonical
}

var _ assistant.Store = (*ValkeyStore)(nil)
