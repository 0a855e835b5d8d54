package board

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"sync"
	"time"

	"jobmate/dashboard-service/internal/model"
	"jobmate/dashboard-service/internal/reconcile"
)

// ─── Collaborators ───────────────────────────────────────────────────────────

// JobSearcher returns the postings matching a filter.
type JobSearcher interface {
	SearchJobs(ctx context.Context, f model.SearchFilter) ([]model.JobPosting, error)
}

// RefreshTrigger asks the backend to re-scrape for a filter.
type RefreshTrigger interface {
	TriggerRefresh(ctx context.Context, f model.SearchFilter) (string, error)
}

// TermsSource provides the default search terms loaded at startup.
type TermsSource interface {
	DefaultTerms(ctx context.Context) ([]string, error)
}

// Listener is notified after every applied cycle. Implementations must not
// block for long: they run on the goroutine that completed the cycle.
type Listener interface {
	BoardUpdated(ctx context.Context, s Snapshot)
}

// ErrStaleResponse is returned by Complete when a newer cycle has been
// issued and stale responses are discarded.
var ErrStaleResponse = errors.New("stale response discarded")

// ─── Board ───────────────────────────────────────────────────────────────────

// Options tune the board's behaviour.
type Options struct {
	// DiscardStale drops a response whose generation is not the latest
	// issued. When false the last response to complete wins.
	DiscardStale bool
	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

// Board is the single owner of the dashboard's render state. All methods are
// safe for concurrent use; reconciliation itself runs under the lock and
// never suspends.
type Board struct {
	searcher  JobSearcher
	trigger   RefreshTrigger
	listeners []Listener
	opts      Options

	mu         sync.Mutex
	filter     model.SearchFilter
	status     Status
	jobs       []model.JobPosting
	newFlags   map[string]bool
	seen       reconcile.IDSet
	generation uint64 // latest issued
	applied    uint64 // generation currently displayed
	lastFetch  time.Time
	lastErr    error
}

// New returns an idle Board starting from filter.
func New(searcher JobSearcher, trigger RefreshTrigger, filter model.SearchFilter, opts Options) *Board {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Board{
		searcher: searcher,
		trigger:  trigger,
		opts:     opts,
		filter:   filter.Clone(),
		status:   StatusIdle,
		jobs:     []model.JobPosting{},
		newFlags: map[string]bool{},
		seen:     reconcile.IDSet{},
	}
}

// AddListener registers l for board updates. Call before the first cycle.
func (b *Board) AddListener(l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, l)
}

// ─── Filter ──────────────────────────────────────────────────────────────────

// Filter returns a copy of the current filter.
func (b *Board) Filter() model.SearchFilter {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter.Clone()
}

// UpdateFilter applies fn to a copy of the filter and keeps the result only
// if fn succeeds and the filter still validates.
func (b *Board) UpdateFilter(fn func(f *model.SearchFilter) error) (model.SearchFilter, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	next := b.filter.Clone()
	if err := fn(&next); err != nil {
		return b.filter.Clone(), err
	}
	if err := next.Validate(); err != nil {
		return b.filter.Clone(), err
	}
	b.filter = next
	return next.Clone(), nil
}

// LoadDefaultTerms replaces the filter's terms with the backend defaults.
func (b *Board) LoadDefaultTerms(ctx context.Context, src TermsSource) error {
	terms, err := src.DefaultTerms(ctx)
	if err != nil {
		return fmt.Errorf("load default terms: %w", err)
	}
	_, err = b.UpdateFilter(func(f *model.SearchFilter) error {
		f.SetTerms(terms)
		return nil
	})
	return err
}

// ─── Cycles ──────────────────────────────────────────────────────────────────

// Begin starts a render cycle: the board shows LOADING and a new generation
// token is issued together with the filter to fetch with.
func (b *Board) Begin() (uint64, model.SearchFilter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.generation++
	b.setStatus(StatusLoading)
	return b.generation, b.filter.Clone()
}

// Complete applies the outcome of cycle gen. fetchErr is the network
// outcome; when it is nil fresh is reconciled against the seen set.
//
// Failures leave the seen set untouched and degrade the board to NO_RESULTS
// with the error recorded. The returned error is the cycle's failure, or
// ErrStaleResponse if the outcome was discarded.
func (b *Board) Complete(ctx context.Context, gen uint64, fresh []model.JobPosting, fetchErr error) (Snapshot, error) {
	b.mu.Lock()
	if b.opts.DiscardStale && gen != b.generation {
		latest := b.generation
		b.mu.Unlock()
		slog.Info("discarding stale board response", "generation", gen, "latest", latest)
		return b.Snapshot(), ErrStaleResponse
	}

	cycleErr := fetchErr
	if cycleErr == nil {
		res, err := reconcile.Reconcile(b.seen, fresh)
		if err != nil {
			cycleErr = err
		} else {
			b.jobs = res.Jobs
			b.newFlags = res.New
			b.seen = reconcile.IDs(fresh)
			b.lastFetch = b.opts.Now()
			b.lastErr = nil
			if res.Empty {
				b.setStatus(StatusNoResults)
			} else {
				b.setStatus(StatusPopulated)
			}
		}
	}
	if cycleErr != nil {
		b.jobs = []model.JobPosting{}
		b.newFlags = map[string]bool{}
		b.lastErr = cycleErr
		b.setStatus(StatusNoResults)
	}
	b.applied = gen

	snap := b.snapshotLocked()
	listeners := append([]Listener(nil), b.listeners...)
	b.mu.Unlock()

	for _, l := range listeners {
		l.BoardUpdated(ctx, snap)
	}
	return snap, cycleErr
}

// Fetch runs one full cycle against the searcher and returns the snapshot
// left behind. A failed cycle still returns a usable NO_RESULTS snapshot.
func (b *Board) Fetch(ctx context.Context) (Snapshot, error) {
	gen, filter := b.Begin()
	fresh, err := b.searcher.SearchJobs(ctx, filter)
	snap, err := b.Complete(ctx, gen, fresh, err)
	if err == nil {
		log.Printf("[board] Generation %d: %d jobs found (%d new). Last updated: %s",
			gen, len(snap.Jobs), snap.NewCount(), snap.LastUpdated())
	}
	return snap, err
}

// Refresh asks the backend to re-scrape, then fetches. If the trigger fails
// no fetch is made and the board is left as it was.
func (b *Board) Refresh(ctx context.Context) (string, Snapshot, error) {
	msg, err := b.trigger.TriggerRefresh(ctx, b.Filter())
	if err != nil {
		return "", b.Snapshot(), fmt.Errorf("trigger refresh: %w", err)
	}
	log.Printf("[board] %s", msg)

	snap, err := b.Fetch(ctx)
	return msg, snap, err
}

// Snapshot returns the current render state.
func (b *Board) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

func (b *Board) snapshotLocked() Snapshot {
	s := Snapshot{
		Status:     b.status,
		Generation: b.applied,
		Jobs:       b.jobs,
		New:        b.newFlags,
		Filter:     b.filter.Clone(),
		LastFetch:  b.lastFetch,
		Now:        b.opts.Now(),
	}
	if b.lastErr != nil {
		s.Error = b.lastErr.Error()
	}
	return s
}

func (b *Board) setStatus(next Status) {
	if !IsTransitionAllowed(b.status, next) {
		slog.Warn("unexpected board transition", "from", b.status, "to", next)
	}
	b.status = next
}
