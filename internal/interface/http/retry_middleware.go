package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/faq-assistant/internal/infra/config"
)

// withRetry replays GET and HEAD requests that fail with a 5xx status. Writes are
// never retried since asking a question bumps the trending counters.
func withRetry(handler http.Handler, cfg config.RetryConfig, logger *slog.Logger) http.Handler {
	if !cfg.Enabled || cfg.MaxAttempts <= 1 {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			handler.ServeHTTP(w, r)
			return
		}
		for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
			if attempt > 1 {
				delay := cfg.BaseBackoff * time.Duration(1<<(attempt-2))
				select {
				case <-r.Context().Done():
					http.Error(w, r.Context().Err().Error(), http.StatusServiceUnavailable)
					return
				case <-time.After(delay):
				}
			}

			recorder := newBufferedResponse()
			handler.ServeHTTP(recorder, r.Clone(r.Context()))
			if recorder.status < http.StatusInternalServerError || attempt == cfg.MaxAttempts {
				recorder.flushTo(w)
				return
			}
			logger.Warn("transient failure, retrying request", "path", r.URL.Path, "status", recorder.status, "attempt", attempt)
		}
	})
}

type bufferedResponse struct {
	header    http.Header
	body      bytes.Buffer
	status    int
	wroteHead bool
}

func newBufferedResponse() *bufferedResponse {
	return &bufferedResponse{header: make(http.Header), status: http.StatusOK}
}

func (b *bufferedResponse) Header() http.Header {
	return b.header
}

func (b *bufferedResponse) WriteHeader(status int) {
	if b.wroteHead {
		return
	}
	b.status = status
	b.wroteHead = true
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	return b.body.Write(p)
}

func (b *bufferedResponse) flushTo(w http.ResponseWriter) {
	dst := w.Header()
	for k, values := range b.header {
		dst[k] = append([]string(nil), values...)
	}
	w.WriteHeader(b.status)
	if b.body.Len() > 0 {
		_, _ = w.Write(b.body.Bytes())
	}
}
