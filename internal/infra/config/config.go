package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Knowledge base source kinds.
const (
	SourceBuiltin     = "builtin"
	SourceFile        = "file"
	SourceObjectStore = "objectstore"
	SourcePostgres    = "postgres"
)

// Embedding providers.
const (
	EmbeddingOpenAI  = "openai"
	EmbeddingHashing = "hashing"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	LLM     LLMConfig     `yaml:"llm"`
	FAQ     FAQConfig     `yaml:"faq"`
	Intent  IntentConfig  `yaml:"intent"`
	Weather WeatherConfig `yaml:"weather"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures retries of idempotent reads that fail with 5xx.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
}

// LLMConfig contains OpenAI-compatible settings. An empty APIKey selects the
// offline embedder and the passthrough generator.
type LLMConfig struct {
	APIKey            string        `yaml:"apiKey"`
	BaseURL           string        `yaml:"baseUrl"`
	Model             string        `yaml:"model"`
	EmbeddingModel    string        `yaml:"embeddingModel"`
	EmbeddingProvider string        `yaml:"embeddingProvider"`
	EmbeddingDim      int           `yaml:"embeddingDim"`
	Temperature       float32       `yaml:"temperature"`
	Timeout           time.Duration `yaml:"timeout"`
}

// FAQConfig controls retrieval and answer selection.
type FAQConfig struct {
	Prompt              string         `yaml:"prompt"`
	SimilarityThreshold float64        `yaml:"similarityThreshold"`
	TopK                int            `yaml:"topK"`
	TopRecommendations  int            `yaml:"topRecommendations"`
	GenerateTimeout     time.Duration  `yaml:"generateTimeout"`
	EmbedTimeout        time.Duration  `yaml:"embedTimeout"`
	EmbedConcurrency    int            `yaml:"embedConcurrency"`
	Source              SourceConfig   `yaml:"source"`
	Redis               RedisConfig    `yaml:"redis"`
	Postgres            PostgresConfig `yaml:"postgres"`
}

// SourceConfig selects where the knowledge base is loaded from.
type SourceConfig struct {
	Kind        string            `yaml:"kind"`
	Path        string            `yaml:"path"`
	Table       string            `yaml:"table"`
	ObjectStore ObjectStoreConfig `yaml:"objectStore"`
}

// ObjectStoreConfig locates the knowledge base document in S3/R2.
type ObjectStoreConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Key       string `yaml:"key"`
	Region    string `yaml:"region"`
}

// RedisConfig contains connection information for the trending store.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// IntentConfig drives the date, time and weather replies.
type IntentConfig struct {
	Timezone string `yaml:"timezone"`
	City     string `yaml:"city"`
}

// WeatherConfig configures the weather provider.
type WeatherConfig struct {
	APIKey  string        `yaml:"apiKey"`
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.HTTP.Address, "HTTP_ADDRESS")
	setBool(&cfg.HTTP.RateLimit.Enabled, "HTTP_RATE_LIMIT_ENABLED")
	setInt(&cfg.HTTP.RateLimit.RequestsPerMinute, "HTTP_RATE_LIMIT_RPM")
	setInt(&cfg.HTTP.RateLimit.Burst, "HTTP_RATE_LIMIT_BURST")
	setBool(&cfg.HTTP.Retry.Enabled, "HTTP_RETRY_ENABLED")
	setInt(&cfg.HTTP.Retry.MaxAttempts, "HTTP_RETRY_MAX_ATTEMPTS")
	setDuration(&cfg.HTTP.Retry.BaseBackoff, "HTTP_RETRY_BASE_BACKOFF")
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = strings.Split(v, ",")
	}

	setString(&cfg.LLM.APIKey, "LLM_API_KEY")
	setString(&cfg.LLM.BaseURL, "LLM_BASE_URL")
	setString(&cfg.LLM.Model, "LLM_MODEL")
	setString(&cfg.LLM.EmbeddingModel, "LLM_EMBEDDING_MODEL")
	setString(&cfg.LLM.EmbeddingProvider, "LLM_EMBEDDING_PROVIDER")
	setInt(&cfg.LLM.EmbeddingDim, "LLM_EMBEDDING_DIM")
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	setDuration(&cfg.LLM.Timeout, "LLM_TIMEOUT")

	setString(&cfg.FAQ.Prompt, "FAQ_PROMPT")
	if v := os.Getenv("FAQ_SIMILARITY_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.FAQ.SimilarityThreshold = parsed
		}
	}
	setInt(&cfg.FAQ.TopK, "FAQ_TOP_K")
	setInt(&cfg.FAQ.TopRecommendations, "FAQ_RECOMMENDATIONS")
	setDuration(&cfg.FAQ.GenerateTimeout, "FAQ_GENERATE_TIMEOUT")
	setDuration(&cfg.FAQ.EmbedTimeout, "FAQ_EMBED_TIMEOUT")
	setString(&cfg.FAQ.Source.Kind, "FAQ_SOURCE")
	setString(&cfg.FAQ.Source.Path, "FAQ_SOURCE_PATH")
	setString(&cfg.FAQ.Source.Table, "FAQ_SOURCE_TABLE")
	setString(&cfg.FAQ.Source.ObjectStore.Endpoint, "FAQ_OBJECT_ENDPOINT")
	setString(&cfg.FAQ.Source.ObjectStore.AccessKey, "FAQ_OBJECT_ACCESS_KEY")
	setString(&cfg.FAQ.Source.ObjectStore.SecretKey, "FAQ_OBJECT_SECRET_KEY")
	setString(&cfg.FAQ.Source.ObjectStore.Bucket, "FAQ_OBJECT_BUCKET")
	setString(&cfg.FAQ.Source.ObjectStore.Key, "FAQ_OBJECT_KEY")
	setString(&cfg.FAQ.Source.ObjectStore.Region, "FAQ_OBJECT_REGION")
	setBool(&cfg.FAQ.Redis.Enabled, "FAQ_REDIS_ENABLED")
	setString(&cfg.FAQ.Redis.Addr, "FAQ_REDIS_ADDR")
	setString(&cfg.FAQ.Postgres.DSN, "FAQ_POSTGRES_DSN")

	setString(&cfg.Intent.Timezone, "INTENT_TIMEZONE")
	setString(&cfg.Intent.City, "WEATHER_CITY")
	setString(&cfg.Weather.APIKey, "WEATHER_API_KEY")
	setString(&cfg.Weather.BaseURL, "WEATHER_BASE_URL")
	setDuration(&cfg.Weather.Timeout, "WEATHER_TIMEOUT")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 20 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 100 * time.Millisecond,
			},
		},
		LLM: LLMConfig{
			Model:          "gpt-4o-mini",
			EmbeddingModel: "text-embedding-3-small",
			EmbeddingDim:   256,
			Temperature:    0.2,
			Timeout:        15 * time.Second,
		},
		FAQ: FAQConfig{
			Prompt:              "You are a helpful FAQ assistant. Answer the user's question using only the provided context. Keep the answer short.",
			SimilarityThreshold: 0.5,
			TopK:                3,
			TopRecommendations:  5,
			GenerateTimeout:     8 * time.Second,
			EmbedTimeout:        10 * time.Second,
			EmbedConcurrency:    4,
			Source: SourceConfig{
				Kind:  SourceBuiltin,
				Table: "faq_entries",
			},
			Redis: RedisConfig{
				Prefix: "faq",
			},
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
		},
		Intent: IntentConfig{
			Timezone: "",
			City:     "Mumbai",
		},
		Weather: WeatherConfig{
			BaseURL: "https://api.openweathermap.org/data/2.5/weather",
			Timeout: 5 * time.Second,
		},
	}
}

// EmbeddingProviderName resolves the effective embedding provider.
func (c *Config) EmbeddingProviderName() string {
	if p := strings.ToLower(strings.TrimSpace(c.LLM.EmbeddingProvider)); p != "" {
		return p
	}
	if strings.TrimSpace(c.LLM.APIKey) != "" {
		return EmbeddingOpenAI
	}
	return EmbeddingHashing
}

// Location resolves the intent timezone.
func (c *Config) Location() (*time.Location, error) {
	if strings.TrimSpace(c.Intent.Timezone) == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Intent.Timezone)
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	if math.IsNaN(c.FAQ.SimilarityThreshold) || c.FAQ.SimilarityThreshold < -1 || c.FAQ.SimilarityThreshold > 1 {
		return errors.New("faq.similarityThreshold must be within [-1, 1]")
	}
	if c.FAQ.TopK <= 0 {
		return errors.New("faq.topK must be positive")
	}
	if c.FAQ.TopRecommendations < 0 {
		return errors.New("faq.topRecommendations cannot be negative")
	}
	if c.FAQ.GenerateTimeout <= 0 {
		return errors.New("faq.generateTimeout must be positive")
	}
	if c.FAQ.Redis.Enabled && strings.TrimSpace(c.FAQ.Redis.Addr) == "" {
		return errors.New("faq.redis.addr cannot be empty when redis is enabled")
	}
	switch c.FAQ.Source.Kind {
	case SourceBuiltin:
	case SourceFile:
		if strings.TrimSpace(c.FAQ.Source.Path) == "" {
			return errors.New("faq.source.path is required for file sources")
		}
	case SourceObjectStore:
		store := c.FAQ.Source.ObjectStore
		if store.Endpoint == "" || store.Bucket == "" || store.Key == "" {
			return errors.New("faq.source.objectStore endpoint, bucket and key are required")
		}
	case SourcePostgres:
		if strings.TrimSpace(c.FAQ.Postgres.DSN) == "" {
			return errors.New("faq.postgres.dsn is required for postgres sources")
		}
	default:
		return fmt.Errorf("unknown faq.source.kind %q", c.FAQ.Source.Kind)
	}
	switch c.EmbeddingProviderName() {
	case EmbeddingOpenAI:
		if strings.TrimSpace(c.LLM.APIKey) == "" {
			return errors.New("llm.apiKey is required for the openai embedding provider")
		}
		if strings.TrimSpace(c.LLM.EmbeddingModel) == "" {
			return errors.New("llm.embeddingModel cannot be empty")
		}
	case EmbeddingHashing:
		if c.LLM.EmbeddingDim < 0 {
			return errors.New("llm.embeddingDim cannot be negative")
		}
	default:
		return fmt.Errorf("unknown llm.embeddingProvider %q", c.LLM.EmbeddingProvider)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("intent.timezone: %w", err)
	}
	return nil
}
