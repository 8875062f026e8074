package intent

import "context"

// WeatherReport is the summary returned by a weather provider.
type WeatherReport struct {
	City        string
	TempCelsius float64
	Description string
}

// WeatherClient fetches current conditions for a city.
type WeatherClient interface {
	Current(ctx context.Context, city string) (WeatherReport, error)
}
