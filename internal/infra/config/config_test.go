package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "empty.yaml"))
	require.NoError(t, os.WriteFile(os.Getenv("CONFIG_PATH"), []byte("{}\n"), 0o600))
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("FAQ_SIMILARITY_THRESHOLD", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 0.5, cfg.FAQ.SimilarityThreshold)
	require.Equal(t, SourceBuiltin, cfg.FAQ.Source.Kind)
	require.Equal(t, EmbeddingHashing, cfg.EmbeddingProviderName())
	require.Equal(t, "Mumbai", cfg.Intent.City)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9090"
faq:
  similarityThreshold: 0.6
  generateTimeout: 3s
  source:
    kind: file
    path: kb.yaml
intent:
  city: Pune
`), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("FAQ_SIMILARITY_THRESHOLD", "0.42")
	t.Setenv("LLM_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, 0.42, cfg.FAQ.SimilarityThreshold)
	require.Equal(t, 3*time.Second, cfg.FAQ.GenerateTimeout)
	require.Equal(t, "kb.yaml", cfg.FAQ.Source.Path)
	require.Equal(t, "Pune", cfg.Intent.City)
	require.Equal(t, EmbeddingOpenAI, cfg.EmbeddingProviderName())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "threshold above one", mutate: func(c *Config) { c.FAQ.SimilarityThreshold = 1.2 }},
		{name: "threshold below minus one", mutate: func(c *Config) { c.FAQ.SimilarityThreshold = -1.5 }},
		{name: "threshold not a number", mutate: func(c *Config) { c.FAQ.SimilarityThreshold = math.NaN() }},
		{name: "empty address", mutate: func(c *Config) { c.HTTP.Address = "" }},
		{name: "file without path", mutate: func(c *Config) { c.FAQ.Source.Kind = SourceFile }},
		{name: "postgres without dsn", mutate: func(c *Config) { c.FAQ.Source.Kind = SourcePostgres }},
		{name: "object store without bucket", mutate: func(c *Config) {
			c.FAQ.Source.Kind = SourceObjectStore
			c.FAQ.Source.ObjectStore.Endpoint = "https://r2.example.com"
		}},
		{name: "unknown source", mutate: func(c *Config) { c.FAQ.Source.Kind = "ftp" }},
		{name: "openai without key", mutate: func(c *Config) { c.LLM.EmbeddingProvider = EmbeddingOpenAI }},
		{name: "bad timezone", mutate: func(c *Config) { c.Intent.Timezone = "Mars/Olympus" }},
		{name: "redis without addr", mutate: func(c *Config) { c.FAQ.Redis.Enabled = true }},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}

	cfg := defaultConfig()
	cfg.FAQ.SimilarityThreshold = -1
	require.NoError(t, cfg.Validate())
	cfg.FAQ.SimilarityThreshold = 1
	require.NoError(t, cfg.Validate())
}

func TestLoadRejectsNaNThreshold(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("faq:\n  similarityThreshold: .nan\n"), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("FAQ_SIMILARITY_THRESHOLD", "")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("FAQ_SIMILARITY_THRESHOLD", "NaN")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o600))
	_, err = Load()
	require.Error(t, err)
}
