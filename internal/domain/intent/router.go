package intent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Intent names a reserved query category.
type Intent string

const (
	IntentDate    Intent = "date"
	IntentTime    Intent = "time"
	IntentWeather Intent = "weather"
)

const (
	dateLayout = "02-01-2006"
	timeLayout = "15:04:05"

	// WeatherUnavailableMessage is returned whenever the weather lookup fails.
	WeatherUnavailableMessage = "Sorry, couldn't fetch the weather."

	defaultWeatherTimeout = 5 * time.Second
)

// Reply is a direct answer produced without retrieval.
type Reply struct {
	Intent   Intent
	Text     string
	Degraded bool
}

// Handler produces a reply for a matched query.
type Handler func(ctx context.Context, query string) Reply

// Rule binds keywords to a handler. A rule matches when any keyword is a
// case-insensitive substring of the query.
type Rule struct {
	Intent   Intent
	Keywords []string
	Handle   Handler
}

func (r Rule) matches(lowered string) bool {
	for _, kw := range r.Keywords {
		if kw != "" && strings.Contains(lowered, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// Config drives the built-in rules.
type Config struct {
	Location       *time.Location
	City           string
	WeatherTimeout time.Duration
}

// Router dispatches reserved intents in a fixed priority order.
type Router struct {
	rules []Rule
}

// NewRouter returns a router over rules, evaluated in slice order.
func NewRouter(rules ...Rule) *Router {
	return &Router{rules: rules}
}

// NewDefaultRouter builds the date, time and weather rules in that priority.
func NewDefaultRouter(cfg Config, weather WeatherClient, logger *slog.Logger) *Router {
	return newDefaultRouter(cfg, weather, logger, time.Now)
}

func newDefaultRouter(cfg Config, weather WeatherClient, logger *slog.Logger, now func() time.Time) *Router {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	timeout := cfg.WeatherTimeout
	if timeout <= 0 {
		timeout = defaultWeatherTimeout
	}
	h := &handlers{
		loc:     loc,
		city:    cfg.City,
		timeout: timeout,
		weather: weather,
		now:     now,
		logger:  logger.With("component", "intent.router"),
	}
	return NewRouter(
		Rule{Intent: IntentDate, Keywords: []string{"date"}, Handle: h.date},
		Rule{Intent: IntentTime, Keywords: []string{"time"}, Handle: h.clock},
		Rule{Intent: IntentWeather, Keywords: []string{"weather"}, Handle: h.weatherReport},
	)
}

// Match returns the first rule that matches query, if any.
func (r *Router) Match(query string) (Rule, bool) {
	lowered := strings.ToLower(query)
	for _, rule := range r.rules {
		if rule.matches(lowered) {
			return rule, true
		}
	}
	return Rule{}, false
}

// Route answers query directly when it hits a reserved intent.
func (r *Router) Route(ctx context.Context, query string) (Reply, bool) {
	rule, ok := r.Match(query)
	if !ok {
		return Reply{}, false
	}
	reply := rule.Handle(ctx, query)
	reply.Intent = rule.Intent
	return reply, true
}

type handlers struct {
	loc     *time.Location
	city    string
	timeout time.Duration
	weather WeatherClient
	now     func() time.Time
	logger  *slog.Logger
}

func (h *handlers) date(context.Context, string) Reply {
	return Reply{Text: "Today's date: " + h.now().In(h.loc).Format(dateLayout)}
}

func (h *handlers) clock(context.Context, string) Reply {
	return Reply{Text: "Current time: " + h.now().In(h.loc).Format(timeLayout)}
}

func (h *handlers) weatherReport(ctx context.Context, _ string) Reply {
	if h.weather == nil {
		h.logger.Warn("weather lookup skipped, no client configured")
		return Reply{Text: WeatherUnavailableMessage, Degraded: true}
	}
	lookupCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	report, err := h.weather.Current(lookupCtx, h.city)
	if err != nil {
		h.logger.Warn("weather lookup failed", "city", h.city, "error", err)
		return Reply{Text: WeatherUnavailableMessage, Degraded: true}
	}
	return Reply{Text: fmt.Sprintf("Weather in %s: %s, %s°C", report.City, report.Description, formatTemp(report.TempCelsius))}
}

func formatTemp(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.1f", v), "0"), ".")
}
