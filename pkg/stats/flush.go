package stats

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// FlushScheduler closes histogram intervals on a cron schedule.
//
// Common schedules:
//   - "@every 5s"   - every five seconds
//   - "* * * * *"   - every minute
//
// Each flush merges every histogram in the store and then runs the hooks
// registered with OnFlush, in registration order.
type FlushScheduler struct {
	store    *Store
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger

	mu        sync.Mutex
	hooks     []func()
	running   bool
	flushes   uint64
	lastFlush time.Time
}

// NewFlushScheduler creates a scheduler for store.
func NewFlushScheduler(store *Store, schedule string) *FlushScheduler {
	return &FlushScheduler{
		store:    store,
		schedule: schedule,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "stats.flush"),
	}
}

// OnFlush registers fn to run after every flush.
func (s *FlushScheduler) OnFlush(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// Start schedules flushing. An empty schedule leaves flushing to explicit
// Flush calls. The scheduler stops when ctx is cancelled.
func (s *FlushScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("flush schedule not configured, skipping scheduler")
		return nil
	}
	if s.running {
		return fmt.Errorf("flush scheduler already running")
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid flush schedule %q: %w", s.schedule, err)
	}
	if _, err := s.cron.AddFunc(s.schedule, s.Flush); err != nil {
		return fmt.Errorf("failed to schedule flush: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("flush scheduler started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Flush merges all histograms and runs the flush hooks.
func (s *FlushScheduler) Flush() {
	start := time.Now()
	s.store.MergeHistograms()

	s.mu.Lock()
	hooks := append([]func(){}, s.hooks...)
	s.flushes++
	s.lastFlush = start
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	s.logger.Debug("stats flushed", "duration", time.Since(start))
}

// Flushes returns how many flushes have run.
func (s *FlushScheduler) Flushes() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushes
}

// LastFlush returns when the most recent flush started, or the zero time
// before the first flush.
func (s *FlushScheduler) LastFlush() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFlush
}

// Stop stops the scheduler and waits for a running flush to finish.
func (s *FlushScheduler) Stop() {
	s.mu.Lock()
	running := s.running
	s.running = false
	s.mu.Unlock()

	if running {
		<-s.cron.Stop().Done()
		s.logger.Info("flush scheduler stopped")
	}
}

// NextRun returns the next scheduled flush, or nil when not scheduled.
func (s *FlushScheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
