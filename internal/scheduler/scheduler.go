package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Refresher is the action run on every tick.
type Refresher interface {
	UpdateForecasts(ctx context.Context) (int, error)
}

// Scheduler periodically refreshes every card on the dashboard.
type Scheduler struct {
	scheduler *gocron.Scheduler
	target    Refresher
	interval  time.Duration
}

// New creates a new Scheduler. An interval of 0 disables it.
func New(interval time.Duration, target Refresher) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		target:    target,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens one interval after start; startup already fetches.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Println("scheduler: no refresh interval configured; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().SingletonMode().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	log.Printf("scheduler: refreshing forecasts every %s", s.interval)
	return nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.target.UpdateForecasts(ctx)
	if err != nil {
		log.Printf("scheduler: refresh failed: %v", err)
		return
	}
	log.Printf("scheduler: issued %d forecast refreshes", n)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
