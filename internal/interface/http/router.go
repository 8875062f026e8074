package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/faq-assistant/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	httpLogger := logger.With("component", "http")

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestID(),
		requestLogger(httpLogger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(httpLogger),
	)

	router.GET("/healthz", handler.Health)

	limited := router.Group("/", rateLimitMiddleware(cfg.HTTP.RateLimit, httpLogger))
	limited.GET("/", handler.Page)
	limited.POST("/", handler.Page)

	api := limited.Group("/api/v1")
	{
		api.POST("/ask", handler.Ask)
		api.GET("/faq/entries", handler.Entries)
		api.GET("/faq/trending", handler.Trending)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, httpLogger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
