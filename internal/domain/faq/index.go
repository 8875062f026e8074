package faq

import (
	"fmt"
	"math"
	"sort"
)

// Index is an exact cosine similarity index over a fixed set of entries.
// It is immutable after BuildIndex and safe for concurrent queries.
type Index struct {
	dims    int
	entries []Entry
	vectors [][]float64
}

// BuildIndex validates the vectors and stores unit-length copies of them.
func BuildIndex(entries []EmbeddedEntry) (*Index, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyKnowledgeBase
	}
	dims := len(entries[0].Vector)
	if dims == 0 {
		return nil, fmt.Errorf("entry 0: %w", ErrEmptyVector)
	}

	idx := &Index{
		dims:    dims,
		entries: make([]Entry, len(entries)),
		vectors: make([][]float64, len(entries)),
	}
	for i, e := range entries {
		if len(e.Vector) != dims {
			return nil, &DimensionMismatchError{Expected: dims, Actual: len(e.Vector), Position: i}
		}
		idx.entries[i] = e.Entry
		idx.vectors[i] = unit(e.Vector)
	}
	return idx, nil
}

// Len reports the number of indexed entries.
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.entries)
}

// Dimension reports the vector dimension of the index.
func (i *Index) Dimension() int {
	if i == nil {
		return 0
	}
	return i.dims
}

// Query returns up to k candidates ordered by descending cosine similarity.
// Equal scores keep insertion order.
func (i *Index) Query(vector []float32, k int) ([]Candidate, error) {
	if i.Len() == 0 || k <= 0 {
		return []Candidate{}, nil
	}
	if len(vector) != i.dims {
		return nil, &DimensionMismatchError{Expected: i.dims, Actual: len(vector), Position: -1}
	}

	q := unit(vector)
	out := make([]Candidate, len(i.entries))
	for pos, v := range i.vectors {
		out[pos] = Candidate{
			Entry:    i.entries[pos],
			Position: pos,
			Score:    dot(q, v),
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Score > out[b].Score
	})
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

// unit returns an L2-normalised float64 copy; zero vectors stay zero.
func unit(v []float32) []float64 {
	out := make([]float64, len(v))
	var norm float64
	for i, x := range v {
		f := float64(x)
		out[i] = f
		norm += f * f
	}
	if norm == 0 {
		return out
	}
	norm = math.Sqrt(norm)
	for i := range out {
		out[i] /= norm
	}
	return out
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
