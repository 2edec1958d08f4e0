package dashboard

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/i474232898/weather-dashboard/internal/registry"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// ErrStopped is returned when an action is submitted after the event loop has exited.
var ErrStopped = errors.New("dashboard is not running")

// Fetcher issues asynchronous forecast fetches. Every returned channel yields
// exactly one result carrying a renderable record.
type Fetcher interface {
	FetchAsync(ctx context.Context, city weather.SelectedCity) <-chan weather.Result
	Fallback() weather.ForecastRecord
}

// Snapshot is a consistent copy of the dashboard state.
type Snapshot struct {
	Loading bool                   `json:"loading"`
	Cards   []CardView             `json:"cards"`
	Cities  []weather.SelectedCity `json:"cities"`
}

// App owns the registry and the reconciler and runs every mutation of either on a
// single event loop goroutine. Fetches run concurrently; their results are applied on
// the loop, so the reconciler's staleness check decides ordering rather than arrival.
type App struct {
	registry   *registry.Registry
	fetcher    Fetcher
	reconciler *Reconciler

	actions chan func()
	done    chan struct{}
	once    sync.Once

	fetchCtx    context.Context
	cancelFetch context.CancelFunc
	inflight    sync.WaitGroup
}

// NewApp wires the dashboard components. Call Run before submitting actions.
func NewApp(reg *registry.Registry, fetcher Fetcher, reconciler *Reconciler) *App {
	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		registry:    reg,
		fetcher:     fetcher,
		reconciler:  reconciler,
		actions:     make(chan func()),
		done:        make(chan struct{}),
		fetchCtx:    ctx,
		cancelFetch: cancel,
	}
}

// Run processes actions and fetch completions until ctx is done.
func (a *App) Run(ctx context.Context) error {
	defer a.once.Do(func() { close(a.done) })

	for {
		select {
		case fn := <-a.actions:
			fn()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// do runs fn on the event loop and waits for it to finish.
func (a *App) do(ctx context.Context, fn func()) error {
	executed := make(chan struct{})
	select {
	case a.actions <- func() { fn(); close(executed) }:
	case <-a.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-executed
	return nil
}

// Start loads the saved cities and fetches each of them. On first run (nothing
// saved, or the saved value is unreadable) it shows the fallback forecast and
// saves its city as the only selection.
func (a *App) Start(ctx context.Context) error {
	return a.do(ctx, func() {
		cities := a.registry.Load(ctx)
		if len(cities) == 0 {
			fb := a.fetcher.Fallback()
			log.Printf("INFO: no saved cities; seeding %s", fb.Key)
			a.apply(fb)
			if _, err := a.registry.Add(ctx, fb.City()); err != nil {
				log.Printf("ERROR: saving default city: %v", err)
			}
			return
		}

		log.Printf("INFO: restoring %d saved cities", len(cities))
		for _, c := range cities {
			a.issue(c)
		}
	})
}

// AddCity selects a city and fetches its forecast. Adding a key that is already
// selected does nothing and reports false.
func (a *App) AddCity(ctx context.Context, city weather.SelectedCity) (bool, error) {
	var (
		added bool
		err   error
	)
	if doErr := a.do(ctx, func() {
		added, err = a.registry.Add(ctx, city)
		if added {
			a.issue(city)
		}
	}); doErr != nil {
		return false, doErr
	}
	return added, err
}

// UpdateForecasts refetches every card currently shown and returns how many
// fetches were issued.
func (a *App) UpdateForecasts(ctx context.Context) (int, error) {
	var n int
	err := a.do(ctx, func() {
		for _, key := range a.reconciler.Keys() {
			a.issue(weather.SelectedCity{Key: key})
			n++
		}
	})
	return n, err
}

// Snapshot returns a copy of the current dashboard state.
func (a *App) Snapshot(ctx context.Context) (Snapshot, error) {
	var s Snapshot
	err := a.do(ctx, func() {
		s = Snapshot{
			Loading: a.reconciler.Loading(),
			Cards:   a.reconciler.Cards(),
			Cities:  a.registry.Cities(),
		}
	})
	return s, err
}

// Drain blocks until every issued fetch has been applied or dropped, or ctx is done.
func (a *App) Drain(ctx context.Context) error {
	idle := make(chan struct{})
	go func() {
		a.inflight.Wait()
		close(idle)
	}()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown aborts in-flight requests, which then complete with the fallback
// record, and waits for them to finish.
func (a *App) Shutdown(ctx context.Context) error {
	a.cancelFetch()
	return a.Drain(ctx)
}

// issue starts a fetch. It must be called on the event loop.
func (a *App) issue(city weather.SelectedCity) {
	a.inflight.Add(1)
	results := a.fetcher.FetchAsync(a.fetchCtx, city)

	go func() {
		res := <-results
		select {
		case a.actions <- func() {
			defer a.inflight.Done()
			a.apply(res.Record)
		}:
		case <-a.done:
			log.Printf("DEBUG: dropping %s result for %s; dashboard stopped", res.Record.Key, city.Key)
			a.inflight.Done()
		}
	}()
}

// apply hands a record to the reconciler. It must be called on the event loop.
func (a *App) apply(rec weather.ForecastRecord) {
	wasLoading := a.reconciler.Loading()

	if !a.reconciler.Apply(rec) {
		log.Printf("DEBUG: discarding %s updated %s; card shows newer data",
			rec.Key, rec.CreatedAt.Format(weather.TimestampLayout))
		return
	}

	if wasLoading && !a.reconciler.Loading() {
		log.Println("INFO: first forecast rendered; dashboard ready")
	}
}
