package faq

import "time"

const (
	// DefaultSimilarityThreshold is the minimum cosine similarity for a stored
	// answer to be trusted. Unrelated sentences typically land well below it.
	DefaultSimilarityThreshold = 0.5
	defaultTopK                = 3
	defaultGenerateTimeout     = 8 * time.Second
	defaultEmbedTimeout        = 10 * time.Second
)

// Config holds runtime knobs for the FAQ service.
type Config struct {
	SimilarityThreshold float64
	TopK                int
	GenerateTimeout     time.Duration
	EmbedTimeout        time.Duration
}

func (c Config) withDefaults() Config {
	if c.TopK <= 0 {
		c.TopK = defaultTopK
	}
	if c.GenerateTimeout <= 0 {
		c.GenerateTimeout = defaultGenerateTimeout
	}
	if c.EmbedTimeout <= 0 {
		c.EmbedTimeout = defaultEmbedTimeout
	}
	return c
}
