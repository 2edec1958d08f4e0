package weather

import (
	"strings"
	"time"
)

const (
	// MaxForecastDays is the number of days requested from the provider and shown on a card.
	MaxForecastDays = 7

	// TimestampLayout is the provider's "last updated" format.
	TimestampLayout = "2006-01-02 15:04"
)

// SelectedCity is a city the user chose to follow.
// Key identifies the city ("Name-Region"); Label is the query string shown to the provider.
type SelectedCity struct {
	Key   string `json:"key" validate:"required"`
	Label string `json:"label"`
}

// QueryLabel returns the label used to query the provider. When no label is set,
// the first "-" of the key is replaced by ", ".
func (c SelectedCity) QueryLabel() string {
	if c.Label != "" {
		return c.Label
	}
	return LabelFromKey(c.Key)
}

// LabelFromKey derives a provider query from a city key ("Cincinnati-Ohio" -> "Cincinnati, Ohio").
func LabelFromKey(key string) string {
	return strings.Replace(key, "-", ", ", 1)
}

// CurrentConditions holds the "now" part of a forecast.
type CurrentConditions struct {
	TempF         float64 `json:"tempF"`
	ConditionCode int     `json:"conditionCode"`
	ConditionText string  `json:"conditionText"`
	WindMph       float64 `json:"windMph"`
	WindDir       string  `json:"windDir"`
	HumidityPct   float64 `json:"humidityPct"`
}

// DayForecast is one entry of the multi-day forecast.
type DayForecast struct {
	Date          string  `json:"date"`
	MaxTempF      float64 `json:"maxTempF"`
	MinTempF      float64 `json:"minTempF"`
	ConditionCode int     `json:"conditionCode"`
	ConditionText string  `json:"conditionText"`
}

// ForecastRecord is the normalized result of a forecast fetch.
// Records are treated as immutable once built.
type ForecastRecord struct {
	Key       string            `json:"key"`
	Label     string            `json:"label"`
	CreatedAt time.Time         `json:"createdAt"`
	Current   CurrentConditions `json:"current"`
	Days      []DayForecast     `json:"days"`
	Sunrise   string            `json:"sunrise"`
	Sunset    string            `json:"sunset"`
}

// City returns the registry entry describing the record's location.
func (r ForecastRecord) City() SelectedCity {
	return SelectedCity{Key: r.Key, Label: r.Label}
}
