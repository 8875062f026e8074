package querystats

import (
	"context"
	"sort"
	"sync"

	"github.com/yanqian/faq-assistant/internal/domain/assistant"
)

// MemoryStore keeps query counters in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	counts   map[string]int64
	displays map[string]string
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		counts:   make(map[string]int64),
		displays: make(map[string]string),
	}
}

// IncrementQuery bumps the counter for canonical. The first display string wins.
func (s *MemoryStore) IncrementQuery(_ context.Context, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[canonical]++
	if _, ok := s.displays[canonical]; !ok && display != "" {
		s.displays[canonical] = display
	}
	return nil
}

// TopQueries returns up to limit queries ordered by count, then text.
func (s *MemoryStore) TopQueries(_ context.Context, limit int) ([]assistant.TrendingQuery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = len(s.counts)
	}
	items := make([]assistant.TrendingQuery, 0, len(s.counts))
	for canonical, count := range s.counts {
		items = append(items, assistant.TrendingQuery{Query: displayOr(s.displays[canonical], canonical), Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Query < items[j].Query
		}
		return items[i].Count > items[j].Count
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func displayOr(display, canonical string) string {
	if display == "" {
		return canonical
	}
	return display
}

var _ assistant.Store = (*MemoryStore)(nil)
