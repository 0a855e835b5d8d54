// Package scheduler wires up the cron job that periodically re-fetches the
// dashboard's job list.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"jobmate/dashboard-service/internal/board"
)

// Fetcher runs one render cycle.
type Fetcher interface {
	Fetch(ctx context.Context) (board.Snapshot, error)
}

// Scheduler wraps robfig/cron and manages the poll loop.
type Scheduler struct {
	cron    *cron.Cron
	fetcher Fetcher
	spec    string // cron spec, e.g. "@every 5m"
}

// New creates a Scheduler that fires every intervalMinutes minutes.
func New(fetcher Fetcher, intervalMinutes int) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLogger(cron.DefaultLogger)),
		fetcher: fetcher,
		spec:    fmt.Sprintf("@every %dm", intervalMinutes),
	}
}

// Spec returns the cron spec the scheduler registers.
func (s *Scheduler) Spec() string { return s.spec }

// Start registers the job and starts the scheduler. Also runs one fetch
// immediately so the board is populated without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started, spec: %s", s.spec)

	go s.RunOnce(ctx)

	return nil
}

// Stop shuts down the scheduler and waits for a running fetch to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Println("[scheduler] Cron stopped")
}

// RunOnce runs a single fetch cycle and logs its outcome. Failures never
// stop the schedule.
func (s *Scheduler) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	_, err := s.fetcher.Fetch(ctx)
	switch {
	case err == nil:
	case errors.Is(err, board.ErrStaleResponse):
		log.Println("[scheduler] Fetch superseded by a newer cycle")
	default:
		log.Printf("[scheduler] Fetch failed, board shows no results: %v", err)
	}
}
