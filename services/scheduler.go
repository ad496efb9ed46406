package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler drives the reminder service on a fixed polling cadence. A tick
// that overruns the interval is skipped, never overlapped.
type Scheduler struct {
	cron     *cron.Cron
	service  *ReminderService
	interval time.Duration
	now      func() time.Time
}

func NewScheduler(service *ReminderService, interval time.Duration) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.DefaultLogger),
		)),
		service:  service,
		interval: interval,
		now:      time.Now,
	}
}

// SetClock injects a clock for deterministic tests.
func (s *Scheduler) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Scheduler) Start() error {
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return fmt.Errorf("schedule reminder tick: %w", err)
	}
	s.cron.Start()
	log.Printf("Reminder scheduler started (interval %s)", s.interval)
	return nil
}

// Stop halts scheduling and blocks until a running tick drains.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Reminder scheduler stopped")
}

// tickTimeout leaves headroom before the next slot so a stalled tick is
// cancelled instead of stacking behind the skip-if-running guard.
func tickTimeout(interval time.Duration) time.Duration {
	return interval * 4 / 5
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), tickTimeout(s.interval))
	defer cancel()

	report, err := s.service.RunTick(ctx, s.now())
	if err != nil {
		log.Printf("Reminder tick aborted: %v", err)
		return
	}
	log.Printf("Reminder tick: evaluated=%d due=%d sent=%d failed=%d skipped=%d expired=%d",
		report.Evaluated, report.Due, report.Sent, report.Failed, report.Skipped, report.Expired)
}
