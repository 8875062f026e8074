package openweather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/faq-assistant/pkg/errors"
)

func TestCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Mumbai", r.URL.Query().Get("q"))
		require.Equal(t, "secret", r.URL.Query().Get("appid"))
		require.Equal(t, "metric", r.URL.Query().Get("units"))
		_, _ = w.Write([]byte(`{"name":"Mumbai","main":{"temp":29.5},"weather":[{"description":"haze"}]}`))
	}))
	defer srv.Close()

	report, err := NewClient(srv.URL, "secret", time.Second).Current(context.Background(), "Mumbai")
	require.NoError(t, err)
	require.Equal(t, "Mumbai", report.City)
	require.Equal(t, 29.5, report.TempCelsius)
	require.Equal(t, "haze", report.Description)
}

func TestCurrentFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		key    string
	}{
		{name: "missing key", status: http.StatusOK, body: `{}`, key: ""},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"cod":401}`, key: "k"},
		{name: "bad json", status: http.StatusOK, body: `{`, key: "k"},
		{name: "no conditions", status: http.StatusOK, body: `{"main":{"temp":20},"weather":[]}`, key: "k"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, tt.key, time.Second).Current(context.Background(), "Mumbai")
			require.Error(t, err)
			require.True(t, apperrors.IsCode(err, "weather_error"))
		})
	}
}
