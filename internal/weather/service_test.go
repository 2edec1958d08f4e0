package weather

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubProvider struct {
	rec   ForecastRecord
	err   error
	calls int
	got   SelectedCity
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Fetch(ctx context.Context, city SelectedCity) (ForecastRecord, error) {
	p.calls++
	p.got = city
	return p.rec, p.err
}

var testFallback = ForecastRecord{
	Key:       "Cincinnati-Ohio",
	Label:     "Cincinnati, Ohio",
	CreatedAt: time.Date(2019, 3, 21, 22, 45, 0, 0, time.UTC),
}

func TestServiceFetchSuccess(t *testing.T) {
	live := ForecastRecord{Key: "Austin-Texas", CreatedAt: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	p := &stubProvider{rec: live}
	svc := NewService(p, testFallback)

	res := svc.Fetch(context.Background(), SelectedCity{Key: "Austin-Texas"})
	if res.Fallback() || res.Record.Key != "Austin-Texas" {
		t.Fatalf("expected live record, got %+v", res)
	}
	if p.calls != 1 {
		t.Fatalf("expected one provider call, got %d", p.calls)
	}
}

func TestServiceFetchSubstitutesFallback(t *testing.T) {
	p := &stubProvider{err: errors.New("unexpected status code: 503")}
	svc := NewService(p, testFallback)

	res := svc.Fetch(context.Background(), SelectedCity{Key: "Austin-Texas"})
	if !res.Fallback() {
		t.Fatal("expected fallback result")
	}
	if res.Record.Key != testFallback.Key || !res.Record.CreatedAt.Equal(testFallback.CreatedAt) {
		t.Fatalf("expected fallback record, got %+v", res.Record)
	}
	if p.calls != 1 {
		t.Fatalf("expected no retry, got %d calls", p.calls)
	}
}

func TestServiceFetchWithoutProvider(t *testing.T) {
	svc := NewService(nil, testFallback)

	res := svc.Fetch(context.Background(), SelectedCity{Key: "Austin-Texas"})
	if !res.Fallback() || res.Record.Key != testFallback.Key {
		t.Fatalf("expected fallback, got %+v", res)
	}
	if _, ok := svc.Stats(); ok {
		t.Fatal("expected no stats without provider")
	}
}

func TestServiceFetchAsyncDeliversOnce(t *testing.T) {
	p := &stubProvider{err: errors.New("offline")}
	svc := NewService(p, testFallback)

	ch := svc.FetchAsync(context.Background(), SelectedCity{Key: "Austin-Texas", Label: "Austin, TX"})

	select {
	case res := <-ch:
		if res.Record.Key != testFallback.Key {
			t.Fatalf("unexpected record %+v", res.Record)
		}
	case <-time.After(time.Second):
		t.Fatal("fetch did not complete")
	}
	if p.got.Label != "Austin, TX" {
		t.Fatalf("expected city to reach provider, got %+v", p.got)
	}
}
