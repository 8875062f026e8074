package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yanqian/faq-assistant/internal/domain/intent"
	apperrors "github.com/yanqian/faq-assistant/pkg/errors"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// Client reads current conditions from the OpenWeatherMap API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds an API client. An empty apiKey makes every lookup fail.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		endpoint = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(endpoint, "/"),
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Current fetches metric conditions for city.
func (c *Client) Current(ctx context.Context, city string) (intent.WeatherReport, error) {
	if c.apiKey == "" {
		return intent.WeatherReport{}, apperrors.Wrap("weather_error", "weather api key missing", nil)
	}
	query := url.Values{}
	query.Set("q", city)
	query.Set("appid", c.apiKey)
	query.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return intent.WeatherReport{}, apperrors.Wrap("weather_error", "build weather request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return intent.WeatherReport{}, apperrors.Wrap("weather_error", "weather request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return intent.WeatherReport{}, apperrors.Wrap("weather_error", "weather request rejected",
			fmt.Errorf("status=%d body=%s", resp.StatusCode, string(payload)))
	}

	var raw apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return intent.WeatherReport{}, apperrors.Wrap("weather_error", "decode weather response", err)
	}
	if raw.Main == nil || len(raw.Weather) == 0 {
		return intent.WeatherReport{}, apperrors.Wrap("weather_error", "incomplete weather response", errors.New("missing main or weather"))
	}

	name := raw.Name
	if name == "" {
		name = city
	}
	return intent.WeatherReport{
		City:        name,
		TempCelsius: raw.Main.Temp,
		Description: raw.Weather[0].Description,
	}, nil
}

var _ intent.WeatherClient = (*Client)(nil)

type apiResponse struct {
	Name    string       `json:"name"`
	Main    *mainSection `json:"main"`
	Weather []condition  `json:"weather"`
}

type mainSection struct {
	Temp float64 `json:"temp"`
}

type condition struct {
	Description string `json:"description"`
}
