package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// StorageKey is the local storage key holding the serialized city list.
const StorageKey = "selectedCities"

var validate = validator.New()

// Storage is the subset of store.Store the registry needs.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Registry owns the ordered list of selected cities and its persisted form.
// It is not safe for concurrent use; the dashboard calls it from one goroutine.
type Registry struct {
	storage Storage
	cities  []weather.SelectedCity
}

// New creates an empty Registry backed by storage.
func New(storage Storage) *Registry {
	return &Registry{storage: storage}
}

// Load replaces the in-memory list with the persisted one. A missing or corrupt
// value yields an empty list; the caller decides how to seed it.
func (r *Registry) Load(ctx context.Context) []weather.SelectedCity {
	r.cities = nil

	raw, err := r.storage.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("WARN: registry: reading %s failed, starting empty: %v", StorageKey, err)
		}
		return r.Cities()
	}

	var saved []weather.SelectedCity
	if err := json.Unmarshal(raw, &saved); err != nil {
		log.Printf("WARN: registry: %s is not valid JSON, starting empty: %v", StorageKey, err)
		return r.Cities()
	}

	for _, c := range saved {
		if err := validate.Struct(c); err != nil {
			log.Printf("WARN: registry: dropping invalid saved city %+v: %v", c, err)
			continue
		}
		if r.contains(c.Key) {
			continue
		}
		r.cities = append(r.cities, c)
	}
	return r.Cities()
}

// Add appends city when its key is new and persists the list.
// A duplicate key is a no-op and reports false.
func (r *Registry) Add(ctx context.Context, city weather.SelectedCity) (bool, error) {
	if err := validate.Struct(city); err != nil {
		return false, fmt.Errorf("invalid city: %w", err)
	}
	if r.contains(city.Key) {
		return false, nil
	}

	r.cities = append(r.cities, city)
	if err := r.Persist(ctx); err != nil {
		return true, err
	}
	return true, nil
}

// Persist overwrites the stored list with the current one.
func (r *Registry) Persist(ctx context.Context) error {
	cities := r.cities
	if cities == nil {
		cities = []weather.SelectedCity{}
	}

	raw, err := json.Marshal(cities)
	if err != nil {
		return fmt.Errorf("encode %s: %w", StorageKey, err)
	}
	if err := r.storage.Put(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("persist %s: %w", StorageKey, err)
	}
	return nil
}

// Cities returns a copy of the selected cities in insertion order.
func (r *Registry) Cities() []weather.SelectedCity {
	out := make([]weather.SelectedCity, len(r.cities))
	copy(out, r.cities)
	return out
}

// Len returns the number of selected cities.
func (r *Registry) Len() int {
	return len(r.cities)
}

func (r *Registry) contains(key string) bool {
	for _, c := range r.cities {
		if c.Key == key {
			return true
		}
	}
	return false
}
