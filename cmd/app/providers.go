package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/faq-assistant/internal/domain/assistant"
	"github.com/yanqian/faq-assistant/internal/domain/faq"
	"github.com/yanqian/faq-assistant/internal/domain/intent"
	"github.com/yanqian/faq-assistant/internal/infra/config"
	"github.com/yanqian/faq-assistant/internal/infra/embedder"
	"github.com/yanqian/faq-assistant/internal/infra/generator"
	"github.com/yanqian/faq-assistant/internal/infra/kbsource"
	"github.com/yanqian/faq-assistant/internal/infra/llm/chatgpt"
	"github.com/yanqian/faq-assistant/internal/infra/querystats"
	"github.com/yanqian/faq-assistant/internal/infra/weather/openweather"
)

func provideFAQConfig(cfg *config.Config) faq.Config {
	return faq.Config{
		SimilarityThreshold: cfg.FAQ.SimilarityThreshold,
		TopK:                cfg.FAQ.TopK,
		GenerateTimeout:     cfg.FAQ.GenerateTimeout,
		EmbedTimeout:        cfg.FAQ.EmbedTimeout,
	}
}

func provideAssistantConfig(cfg *config.Config) assistant.Config {
	return assistant.Config{TopRecommendations: cfg.FAQ.TopRecommendations}
}

func provideIntentConfig(cfg *config.Config) (intent.Config, error) {
	loc, err := cfg.Location()
	if err != nil {
		return intent.Config{}, err
	}
	return intent.Config{
		Location:       loc,
		City:           cfg.Intent.City,
		WeatherTimeout: cfg.Weather.Timeout,
	}, nil
}

// provideChatGPTClient returns nil when no API key is configured.
func provideChatGPTClient(cfg *config.Config, logger *slog.Logger) (*chatgpt.Client, error) {
	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		logger.Info("llm api key not set, running offline")
		return nil, nil
	}
	return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Timeout)
}

func provideEmbedder(cfg *config.Config, client *chatgpt.Client, logger *slog.Logger) (faq.Embedder, error) {
	switch cfg.EmbeddingProviderName() {
	case config.EmbeddingOpenAI:
		if client == nil {
			return nil, errors.New("openai embeddings require llm.apiKey")
		}
		return embedder.NewChatGPTEmbedder(client, cfg.LLM.EmbeddingModel, logger), nil
	default:
		return embedder.NewHashingEmbedder(cfg.LLM.EmbeddingDim), nil
	}
}

func provideGenerator(cfg *config.Config, client *chatgpt.Client) faq.Generator {
	if client == nil {
		return generator.Passthrough{}
	}
	return generator.NewChatGPTGenerator(client, cfg.LLM.Model, cfg.LLM.Temperature, cfg.FAQ.Prompt)
}

func provideSource(ctx context.Context, cfg *config.Config, logger *slog.Logger) (faq.Source, func(), error) {
	noop := func() {}
	src := cfg.FAQ.Source
	switch src.Kind {
	case config.SourceFile:
		return kbsource.NewFileSource(src.Path), noop, nil
	case config.SourceObjectStore:
		store, err := kbsource.NewObjectStoreSource(kbsource.ObjectStoreConfig{
			Endpoint:  src.ObjectStore.Endpoint,
			AccessKey: src.ObjectStore.AccessKey,
			SecretKey: src.ObjectStore.SecretKey,
			Bucket:    src.ObjectStore.Bucket,
			Key:       src.ObjectStore.Key,
			Region:    src.ObjectStore.Region,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil
	case config.SourcePostgres:
		pool, err := openPostgres(ctx, cfg.FAQ.Postgres)
		if err != nil {
			return nil, nil, err
		}
		source, err := kbsource.NewPostgresSource(pool, src.Table)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("faq postgres source enabled", "table", src.Table)
		return source, pool.Close, nil
	default:
		return faq.BuiltinSource{}, noop, nil
	}
}

func openPostgres(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(strings.TrimSpace(cfg.DSN))
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

func provideKnowledgeBase(ctx context.Context, cfg *config.Config, source faq.Source, emb faq.Embedder, logger *slog.Logger) (*faq.KnowledgeBase, error) {
	return faq.NewKnowledgeBase(ctx, source, emb, cfg.FAQ.EmbedConcurrency, logger)
}

func provideWeatherClient(cfg *config.Config) *openweather.Client {
	return openweather.NewClient(cfg.Weather.BaseURL, cfg.Weather.APIKey, cfg.Weather.Timeout)
}

func provideRouter(cfg intent.Config, weather intent.WeatherClient, logger *slog.Logger) *intent.Router {
	return intent.NewDefaultRouter(cfg, weather, logger)
}

// provideStore falls back to process memory when Valkey is disabled or unreachable.
func provideStore(cfg *config.Config, logger *slog.Logger) (assistant.Store, func()) {
	noop := func() {}
	if !cfg.FAQ.Redis.Enabled {
		return querystats.NewMemoryStore(), noop
	}
	opt, err := buildValkeyOptions(cfg.FAQ.Redis.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
		return querystats.NewMemoryStore(), noop
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory store", "error", err)
		return querystats.NewMemoryStore(), noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory store", "error", err)
		client.Close()
		return querystats.NewMemoryStore(), noop
	}
	logger.Info("valkey query stats enabled", "addr", cfg.FAQ.Redis.Addr)
	return querystats.NewValkeyStore(client, cfg.FAQ.Redis.Prefix), client.Close
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
