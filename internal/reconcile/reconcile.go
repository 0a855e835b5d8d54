// Package reconcile diffs a freshly fetched job list against the identifiers
// seen in the previous render cycle.
//
// Everything here is pure: inputs are never mutated and no clock is read
// except through the now argument of TimeAgo.
package reconcile

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"jobmate/dashboard-service/internal/model"
)

// ErrMalformedPosting is returned when a posting's date cannot be parsed.
// The whole batch is rejected; no partial ordering is produced.
var ErrMalformedPosting = errors.New("malformed posting")

// IDSet is a set of posting identifiers.
type IDSet map[string]struct{}

// Has reports whether id is in the set.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the identifier set of jobs. Callers replace their seen set with
// this value after a successful cycle; it is not merged with the old one.
func IDs(jobs []model.JobPosting) IDSet {
	set := make(IDSet, len(jobs))
	for _, j := range jobs {
		set[j.ID] = struct{}{}
	}
	return set
}

// Result is the render plan for one cycle.
type Result struct {
	Jobs  []model.JobPosting // most recent first
	New   map[string]bool    // keyed by posting ID
	Empty bool               // the backend returned no postings
}

// NewCount returns how many postings are flagged new.
func (r Result) NewCount() int {
	n := 0
	for _, isNew := range r.New {
		if isNew {
			n++
		}
	}
	return n
}

// Reconcile orders fresh by date posted, newest first, and flags every
// posting whose ID is absent from previous. An empty previous set is a cold
// start and flags nothing.
func Reconcile(previous IDSet, fresh []model.JobPosting) (Result, error) {
	if len(fresh) == 0 {
		return Result{Jobs: []model.JobPosting{}, New: map[string]bool{}, Empty: true}, nil
	}

	type dated struct {
		job model.JobPosting
		at  time.Time
	}
	rows := make([]dated, 0, len(fresh))
	for _, j := range fresh {
		if j.ID == "" {
			return Result{}, fmt.Errorf("posting %q has no id: %w", j.Title, ErrMalformedPosting)
		}
		at, err := ParseDatePosted(j.DatePosted)
		if err != nil {
			return Result{}, fmt.Errorf("posting %s: %w", j.ID, err)
		}
		rows = append(rows, dated{job: j, at: at})
	}

	// Ties keep backend order.
	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].at.After(rows[b].at)
	})

	coldStart := len(previous) == 0
	res := Result{
		Jobs: make([]model.JobPosting, len(rows)),
		New:  make(map[string]bool, len(rows)),
	}
	for i, r := range rows {
		res.Jobs[i] = r.job
		res.New[r.job.ID] = !coldStart && !previous.Has(r.job.ID)
	}
	return res, nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseDatePosted parses a backend timestamp. Values without a zone are
// read as UTC.
func ParseDatePosted(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("date_posted %q: %w", raw, ErrMalformedPosting)
}
