package faq

import (
	"errors"
	"fmt"
)

// ErrEmptyKnowledgeBase is returned when an index would hold no entries.
var ErrEmptyKnowledgeBase = errors.New("knowledge base has no entries")

// ErrEmptyVector is returned when the first entry carries a zero-length vector.
var ErrEmptyVector = errors.New("empty embedding vector")

// DimensionMismatchError reports a vector whose length differs from the index dimension.
type DimensionMismatchError struct {
	Expected int
	Actual   int
	Position int
}

func (e *DimensionMismatchError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("query vector dimension %d does not match index dimension %d", e.Actual, e.Expected)
	}
	return fmt.Sprintf("entry %d has dimension %d, expected %d", e.Position, e.Actual, e.Expected)
}
