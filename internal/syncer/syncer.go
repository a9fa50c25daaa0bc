// Package syncer centralizes snapshot refresh behind one scheduler: a
// polling ticker plus an explicit refresh event drive the same reconcile
// function, instead of several independent triggers racing each other.
package syncer

import (
	"context"
	"io"
	"log"
	"time"
)

const defaultInterval = 5 * time.Second

type Scheduler struct {
	interval  time.Duration
	timeout   time.Duration
	reconcile func(ctx context.Context)
	refresh   chan struct{}
	logger    *log.Logger
}

// New builds a Scheduler running reconcile every interval and on demand.
// Each cycle runs under its own deadline so a hung fetch cannot stall the
// loop indefinitely.
func New(interval time.Duration, reconcile func(ctx context.Context), logger *log.Logger) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Scheduler{
		interval:  interval,
		timeout:   interval * 2,
		reconcile: reconcile,
		refresh:   make(chan struct{}, 1),
		logger:    logger,
	}
}

// Run blocks until ctx is cancelled. An initial reconcile fires immediately
// so fresh state is available at startup.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Printf("syncer: polling every %s", s.interval)
	s.cycle(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Printf("syncer: stopped")
			return
		case <-ticker.C:
			s.cycle(ctx)
		case <-s.refresh:
			s.cycle(ctx)
		}
	}
}

// Refresh requests an immediate reconcile. Never blocks; a cycle already
// queued is enough.
func (s *Scheduler) Refresh() {
	select {
	case s.refresh <- struct{}{}:
	default:
	}
}

func (s *Scheduler) cycle(parent context.Context) {
	if parent.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()
	s.reconcile(ctx)
}
