package embedder

import (
	"context"
	"hash/fnv"
	"strings"

	"github.com/yanqian/faq-assistant/internal/domain/faq"
)

const defaultHashingDim = 256

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "is": {}, "are": {}, "was": {}, "s": {},
	"to": {}, "in": {}, "of": {}, "on": {}, "at": {}, "and": {}, "or": {},
	"i": {}, "me": {}, "my": {}, "you": {}, "it": {}, "about": {}, "for": {},
	"do": {}, "does": {}, "can": {}, "what": {}, "tell": {}, "please": {},
}

// HashingEmbedder maps text to a bag-of-words vector using feature hashing. It needs
// no network and is deterministic, so identical text always yields identical vectors.
type HashingEmbedder struct {
	dim int
}

// NewHashingEmbedder constructs the embedder.
func NewHashingEmbedder(dim int) *HashingEmbedder {
	if dim <= 0 {
		dim = defaultHashingDim
	}
	return &HashingEmbedder{dim: dim}
}

// Embed converts each text into a term-frequency vector.
func (e *HashingEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vector := make([]float32, e.dim)
		for _, token := range strings.Fields(faq.NormalizeQuestion(text)) {
			if _, skip := stopwords[token]; skip {
				continue
			}
			vector[bucket(stem(token), e.dim)]++
		}
		vectors[i] = vector
	}
	return vectors, nil
}

// Dimensions reports the vector length.
func (e *HashingEmbedder) Dimensions() int {
	return e.dim
}

func bucket(token string, dim int) int {
	hash := fnv.New64a()
	_, _ = hash.Write([]byte(token))
	return int(hash.Sum64() % uint64(dim))
}

// stem strips a plural "s" so "spots" and "spot" share a bucket.
func stem(token string) string {
	if len(token) > 3 && strings.HasSuffix(token, "s") && !strings.HasSuffix(token, "ss") {
		return token[:len(token)-1]
	}
	return token
}

var _ faq.Embedder = (*HashingEmbedder)(nil)
