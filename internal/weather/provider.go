package weather

import (
	"context"
)

// Provider abstracts a forecast data source (e.g. WeatherAPI).
// A single call issues a single request; implementations never retry.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, city SelectedCity) (ForecastRecord, error)
}

// Result is what a fetch delivers: always a renderable record, plus the provider
// error when the record is the fallback.
type Result struct {
	Record ForecastRecord
	Err    error
}

// Fallback reports whether the record was substituted for a failed fetch.
func (r Result) Fallback() bool {
	return r.Err != nil
}

// ProviderStats summarizes a provider's request outcomes since start.
type ProviderStats struct {
	Name                string `json:"name"`
	State               string `json:"state"`
	Requests            uint32 `json:"requests"`
	TotalFailures       uint32 `json:"totalFailures"`
	ConsecutiveFailures uint32 `json:"consecutiveFailures"`
}

// StatsReporter is implemented by providers that track request outcomes.
type StatsReporter interface {
	Stats() ProviderStats
}
