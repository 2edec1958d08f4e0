package providers

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// fallback.json is a WeatherAPI forecast.json response for Cincinnati, Ohio,
// last updated 2019-03-21 22:45.
//
//go:embed fallback.json
var fallbackForecast []byte

// Fallback returns the bundled forecast shown when live data cannot be obtained.
func Fallback() (weather.ForecastRecord, error) {
	rec, err := decodeForecast(bytes.NewReader(fallbackForecast), time.Time{})
	if err != nil {
		return weather.ForecastRecord{}, fmt.Errorf("decode bundled fallback forecast: %w", err)
	}
	return rec, nil
}
