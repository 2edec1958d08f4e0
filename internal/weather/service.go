package weather

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// Service issues forecast fetches against a provider and substitutes the fallback
// record whenever the provider fails, so callers always receive something to render.
type Service struct {
	provider Provider
	fallback ForecastRecord
}

// NewService creates a new Service.
func NewService(provider Provider, fallback ForecastRecord) *Service {
	return &Service{
		provider: provider,
		fallback: fallback,
	}
}

// Fallback returns the designated record shown when live data is unavailable.
func (s *Service) Fallback() ForecastRecord {
	return s.fallback
}

// Stats returns the provider's counters when it keeps any.
func (s *Service) Stats() (ProviderStats, bool) {
	r, ok := s.provider.(StatsReporter)
	if !ok {
		return ProviderStats{}, false
	}
	return r.Stats(), true
}

// Fetch performs one blocking fetch for the city.
func (s *Service) Fetch(ctx context.Context, city SelectedCity) Result {
	id := uuid.NewString()
	label := city.QueryLabel()

	if s.provider == nil {
		err := fmt.Errorf("no weather provider configured")
		log.Printf("ERROR: fetch %s for %q: %v; using fallback %s", id, label, err, s.fallback.Key)
		return Result{Record: s.fallback, Err: err}
	}

	log.Printf("DEBUG: fetch %s started for %q via %s", id, label, s.provider.Name())

	rec, err := s.provider.Fetch(ctx, city)
	if err != nil {
		log.Printf("WARN: fetch %s for %q failed: %v; using fallback %s", id, label, err, s.fallback.Key)
		return Result{Record: s.fallback, Err: err}
	}

	log.Printf("DEBUG: fetch %s for %q returned %s updated %s", id, label, rec.Key, rec.CreatedAt.Format(TimestampLayout))
	return Result{Record: rec}
}

// FetchAsync starts a fetch and returns a channel that yields exactly one Result.
func (s *Service) FetchAsync(ctx context.Context, city SelectedCity) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		out <- s.Fetch(ctx, city)
	}()
	return out
}
