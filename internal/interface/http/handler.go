package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/faq-assistant/internal/domain/assistant"
)

// Handler wires the HTTP transport to the assistant.
type Handler struct {
	svc      assistant.Service
	renderer *answerRenderer
	logger   *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(svc assistant.Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:      svc,
		renderer: newAnswerRenderer(),
		logger:   logger.With("component", "http.handler"),
	}
}

// Ask resolves one question.
func (h *Handler) Ask(c *gin.Context) {
	var req assistant.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.svc.Ask(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, askError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Entries lists knowledge base questions for quick links.
func (h *Handler) Entries(c *gin.Context) {
	type entryView struct {
		Question string `json:"question"`
	}
	entries := h.svc.Entries()
	out := make([]entryView, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryView{Question: e.Question})
	}
	c.JSON(http.StatusOK, gin.H{"entries": out})
}

// Trending returns the most common questions.
func (h *Handler) Trending(c *gin.Context) {
	items, err := h.svc.Trending(c.Request.Context())
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "trending_failed", errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": items})
}

// Health reports readiness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "entries": len(h.svc.Entries())})
}

// Page renders the question form and, for POST, the answer.
func (h *Handler) Page(c *gin.Context) {
	data := pageData{Title: pageTitle, Entries: h.svc.Entries()}

	if c.Request.Method == http.MethodPost {
		data.Question = c.PostForm("question")
		resp, err := h.svc.Ask(c.Request.Context(), assistant.Request{Question: data.Question})
		if err != nil {
			abortWithError(c, askError(err))
			return
		}
		data.Result = h.renderer.render(resp)
	}

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(c.Writer, data); err != nil {
		h.logger.Error("render page failed", "error", err)
	}
}

func askError(err error) *HTTPError {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NewHTTPError(http.StatusServiceUnavailable, "request_cancelled", "request cancelled", err)
	}
	return asHTTPError(err)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
