package faq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/yanqian/faq-assistant/pkg/errors"
)

const (
	defaultEmbedConcurrency = 4
	// embedBatchSize caps the texts per Embed call; the embedder may split further.
	embedBatchSize = 64
)

// KnowledgeBase is the immutable, embedded FAQ collection.
type KnowledgeBase struct {
	entries []Entry
	index   *Index
}

// NewKnowledgeBase loads the source once, embeds entries lacking a vector and
// builds the similarity index. Every failure here is fatal for startup.
func NewKnowledgeBase(ctx context.Context, source Source, embedder Embedder, concurrency int, logger *slog.Logger) (*KnowledgeBase, error) {
	log := logger.With("component", "faq.knowledge")

	records, err := source.Load(ctx)
	if err != nil {
		return nil, apperrors.Wrap("knowledge_base_error", "load knowledge base", err)
	}
	if len(records) == 0 {
		return nil, apperrors.Wrap("knowledge_base_error", "load knowledge base", ErrEmptyKnowledgeBase)
	}

	embedded := make([]EmbeddedEntry, len(records))
	var missing []int
	for i, rec := range records {
		entry := Entry{
			Question: strings.TrimSpace(rec.Entry.Question),
			Answer:   strings.TrimSpace(rec.Entry.Answer),
		}
		if entry.Question == "" || entry.Answer == "" {
			return nil, apperrors.Wrap("knowledge_base_error", fmt.Sprintf("entry %d has an empty question or answer", i), nil)
		}
		embedded[i] = EmbeddedEntry{Entry: entry, Vector: rec.Vector}
		if len(rec.Vector) == 0 {
			missing = append(missing, i)
		}
	}

	if len(missing) > 0 {
		if concurrency <= 0 {
			concurrency = defaultEmbedConcurrency
		}
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)
		for start := 0; start < len(missing); start += embedBatchSize {
			batch := missing[start:min(start+embedBatchSize, len(missing))]
			g.Go(func() error {
				texts := make([]string, len(batch))
				for i, pos := range batch {
					texts[i] = embedded[pos].Entry.Question
				}
				vectors, err := embedder.Embed(gctx, texts)
				if err != nil {
					return fmt.Errorf("embed entries %d-%d: %w", batch[0], batch[len(batch)-1], err)
				}
				if len(vectors) != len(batch) {
					return fmt.Errorf("embed entries %d-%d: got %d vectors for %d texts", batch[0], batch[len(batch)-1], len(vectors), len(batch))
				}
				for i, pos := range batch {
					if len(vectors[i]) == 0 {
						return fmt.Errorf("embed entry %d: empty embedding", pos)
					}
					embedded[pos].Vector = vectors[i]
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, apperrors.Wrap("embedding_error", "embed knowledge base", err)
		}
	}

	index, err := BuildIndex(embedded)
	if err != nil {
		var dimErr *DimensionMismatchError
		if errors.As(err, &dimErr) {
			return nil, apperrors.Wrap("dimension_mismatch", "build similarity index", err)
		}
		return nil, apperrors.Wrap("knowledge_base_error", "build similarity index", err)
	}

	entries := make([]Entry, len(embedded))
	for i, e := range embedded {
		entries[i] = e.Entry
	}
	log.Info("knowledge base ready", "entries", len(entries), "embedded", len(missing), "dimension", index.Dimension())
	return &KnowledgeBase{entries: entries, index: index}, nil
}

// Entries returns a copy of the entries in load order.
func (kb *KnowledgeBase) Entries() []Entry {
	if kb == nil {
		return nil
	}
	out := make([]Entry, len(kb.entries))
	copy(out, kb.entries)
	return out
}

// Index exposes the read-only similarity index.
func (kb *KnowledgeBase) Index() *Index {
	if kb == nil {
		return nil
	}
	return kb.index
}
