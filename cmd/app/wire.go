//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/yanqian/faq-assistant/internal/bootstrap"
	"github.com/yanqian/faq-assistant/internal/domain/assistant"
	"github.com/yanqian/faq-assistant/internal/domain/faq"
	"github.com/yanqian/faq-assistant/internal/domain/intent"
	"github.com/yanqian/faq-assistant/internal/infra/config"
	"github.com/yanqian/faq-assistant/internal/infra/weather/openweather"
	httpiface "github.com/yanqian/faq-assistant/internal/interface/http"
	"github.com/yanqian/faq-assistant/pkg/logger"
)

var assistantSet = wire.NewSet(
	provideFAQConfig,
	provideAssistantConfig,
	provideIntentConfig,
	provideChatGPTClient,
	provideEmbedder,
	provideGenerator,
	provideSource,
	provideKnowledgeBase,
	provideWeatherClient,
	provideRouter,
	provideStore,
	faq.NewService,
	assistant.NewService,
	wire.Bind(new(intent.WeatherClient), new(*openweather.Client)),
	wire.Bind(new(assistant.Router), new(*intent.Router)),
)

func initializeApp(ctx context.Context) (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		assistantSet,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}

func initializeAssistant(ctx context.Context) (assistant.Service, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		assistantSet,
	)
	return nil, nil, nil
}
