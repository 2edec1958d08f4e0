package registry

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

func TestLoadMissingIsEmpty(t *testing.T) {
	r := New(store.NewMemoryStore())

	if got := r.Load(context.Background()); len(got) != 0 {
		t.Fatalf("expected empty registry, got %v", got)
	}
}

func TestLoadCorruptIsEmpty(t *testing.T) {
	s := store.NewMemoryStore()
	_ = s.Put(context.Background(), StorageKey, []byte("{not json"))

	r := New(s)
	if got := r.Load(context.Background()); len(got) != 0 {
		t.Fatalf("expected corrupt value to load as empty, got %v", got)
	}
}

func TestLoadDropsInvalidAndDuplicateEntries(t *testing.T) {
	s := store.NewMemoryStore()
	_ = s.Put(context.Background(), StorageKey, []byte(
		`[{"key":"Austin-Texas","label":"Austin, Texas"},{"key":"","label":"nowhere"},{"key":"Austin-Texas","label":"again"}]`))

	r := New(s)
	got := r.Load(context.Background())
	want := []weather.SelectedCity{{Key: "Austin-Texas", Label: "Austin, Texas"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestAddIsIdempotentOnKey(t *testing.T) {
	r := New(store.NewMemoryStore())
	ctx := context.Background()

	added, err := r.Add(ctx, weather.SelectedCity{Key: "Austin-Texas", Label: "Austin, Texas"})
	if err != nil || !added {
		t.Fatalf("first add: added=%v err=%v", added, err)
	}

	added, err = r.Add(ctx, weather.SelectedCity{Key: "Austin-Texas", Label: "Other label"})
	if err != nil || added {
		t.Fatalf("duplicate add: added=%v err=%v", added, err)
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 city, got %d", r.Len())
	}
	if r.Cities()[0].Label != "Austin, Texas" {
		t.Fatalf("duplicate add replaced the label: %v", r.Cities())
	}
}

func TestAddRejectsEmptyKey(t *testing.T) {
	r := New(store.NewMemoryStore())
	if _, err := r.Add(context.Background(), weather.SelectedCity{Label: "x"}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestPersistLoadRoundTrip(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()
	cities := []weather.SelectedCity{
		{Key: "Cincinnati-Ohio", Label: "Cincinnati, Ohio"},
		{Key: "Austin-Texas", Label: "Austin, Texas"},
		{Key: "Paris-Ile-de-France", Label: ""},
	}

	r := New(s)
	for _, c := range cities {
		if _, err := r.Add(ctx, c); err != nil {
			t.Fatalf("add %v: %v", c, err)
		}
	}

	// A fresh registry over the same storage sees the same ordered list.
	got := New(s).Load(ctx)
	if !reflect.DeepEqual(got, cities) {
		t.Fatalf("round trip mismatch: got %v, want %v", got, cities)
	}
}

func TestPersistEmptyWritesArray(t *testing.T) {
	s := store.NewMemoryStore()
	if err := New(s).Persist(context.Background()); err != nil {
		t.Fatalf("persist: %v", err)
	}
	raw, _ := s.Get(context.Background(), StorageKey)
	if string(raw) != "[]" {
		t.Fatalf("expected [], got %s", raw)
	}
}

type failingStorage struct{ *store.MemoryStore }

func (failingStorage) Put(context.Context, string, []byte) error { return errors.New("disk full") }

func TestAddReportsPersistFailure(t *testing.T) {
	r := New(failingStorage{store.NewMemoryStore()})

	added, err := r.Add(context.Background(), weather.SelectedCity{Key: "Austin-Texas"})
	if err == nil {
		t.Fatal("expected persist error")
	}
	if !added || r.Len() != 1 {
		t.Fatalf("expected city kept in memory, added=%v len=%d", added, r.Len())
	}
}
