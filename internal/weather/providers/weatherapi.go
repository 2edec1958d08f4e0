package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/sony/gobreaker"
)

// DefaultWeatherAPIURL is WeatherAPI.com's forecast endpoint.
const DefaultWeatherAPIURL = "https://api.weatherapi.com/v1/forecast.json"

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(cfg HTTPClientConfig, baseURL, apiKey string) *WeatherAPIProvider {
	if baseURL == "" {
		baseURL = DefaultWeatherAPIURL
	}

	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: cfg,
		circuit: newCircuitBreaker("weatherapi", cfg),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

// Stats reports request outcomes counted by the provider's circuit breaker.
func (p *WeatherAPIProvider) Stats() weather.ProviderStats {
	return breakerStats(p.name, p.circuit)
}

// Fetch requests a 7-day forecast for the city's query label.
func (p *WeatherAPIProvider) Fetch(ctx context.Context, city weather.SelectedCity) (weather.ForecastRecord, error) {
	if p.apiKey == "" {
		return weather.ForecastRecord{}, fmt.Errorf("weatherapi api key is not configured")
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("q", city.QueryLabel())
	values.Set("days", strconv.Itoa(weather.MaxForecastDays))

	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return weather.ForecastRecord{}, err
	}

	resp, err := doRequest(ctx, p.httpCfg, p.circuit, req)
	if err != nil {
		return weather.ForecastRecord{}, err
	}
	defer resp.Body.Close()

	rec, err := decodeForecast(resp.Body, time.Now().UTC())
	if err != nil {
		return weather.ForecastRecord{}, fmt.Errorf("decode weatherapi response: %w", err)
	}
	return rec, nil
}

type condition struct {
	Text string `json:"text"`
	Code int    `json:"code"`
}

type forecastPayload struct {
	Location struct {
		Name   string `json:"name"`
		Region string `json:"region"`
	} `json:"location"`
	Current struct {
		LastUpdated string    `json:"last_updated"`
		TempF       float64   `json:"temp_f"`
		Condition   condition `json:"condition"`
		WindMph     float64   `json:"wind_mph"`
		WindDir     string    `json:"wind_dir"`
	} `json:"current"`
	Forecast struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				MaxTempF    float64   `json:"maxtemp_f"`
				MinTempF    float64   `json:"mintemp_f"`
				AvgHumidity float64   `json:"avghumidity"`
				Condition   condition `json:"condition"`
			} `json:"day"`
			Astro struct {
				Sunrise string `json:"sunrise"`
				Sunset  string `json:"sunset"`
			} `json:"astro"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

// decodeForecast normalizes a forecast.json body. Key and label come from the
// response's location, not from the request. now stamps records whose
// last_updated field cannot be parsed.
func decodeForecast(r io.Reader, now time.Time) (weather.ForecastRecord, error) {
	var payload forecastPayload
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return weather.ForecastRecord{}, err
	}
	if payload.Location.Name == "" {
		return weather.ForecastRecord{}, fmt.Errorf("response has no location name")
	}

	createdAt, err := time.Parse(weather.TimestampLayout, payload.Current.LastUpdated)
	if err != nil {
		createdAt = now
	}

	rec := weather.ForecastRecord{
		Key:       payload.Location.Name + "-" + payload.Location.Region,
		Label:     payload.Location.Name + ", " + payload.Location.Region,
		CreatedAt: createdAt,
		Current: weather.CurrentConditions{
			TempF:         payload.Current.TempF,
			ConditionCode: payload.Current.Condition.Code,
			ConditionText: payload.Current.Condition.Text,
			WindMph:       payload.Current.WindMph,
			WindDir:       payload.Current.WindDir,
		},
	}

	days := payload.Forecast.ForecastDay
	if len(days) > weather.MaxForecastDays {
		days = days[:weather.MaxForecastDays]
	}
	if len(days) > 0 {
		rec.Current.HumidityPct = days[0].Day.AvgHumidity
		rec.Sunrise = days[0].Astro.Sunrise
		rec.Sunset = days[0].Astro.Sunset
	}

	rec.Days = make([]weather.DayForecast, 0, len(days))
	for _, d := range days {
		rec.Days = append(rec.Days, weather.DayForecast{
			Date:          d.Date,
			MaxTempF:      d.Day.MaxTempF,
			MinTempF:      d.Day.MinTempF,
			ConditionCode: d.Day.Condition.Code,
			ConditionText: d.Day.Condition.Text,
		})
	}

	return rec, nil
}
