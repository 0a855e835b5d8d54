package board

import (
	"fmt"
	"time"

	"jobmate/dashboard-service/internal/model"
	"jobmate/dashboard-service/internal/reconcile"
)

// Snapshot is an immutable view of the board handed to renderers.
// Jobs and New must be treated as read-only.
type Snapshot struct {
	Status     Status
	Generation uint64
	Jobs       []model.JobPosting
	New        map[string]bool
	Filter     model.SearchFilter
	LastFetch  time.Time
	Error      string
	Now        time.Time // reference time for relative labels
}

// Card is one rendered posting.
type Card struct {
	model.JobPosting
	IsNew     bool   `json:"isNew"`
	PostedAgo string `json:"postedAgo"`
}

// Cards returns the postings in display order with their labels.
func (s Snapshot) Cards() []Card {
	cards := make([]Card, 0, len(s.Jobs))
	for _, j := range s.Jobs {
		c := Card{JobPosting: j, IsNew: s.New[j.ID]}
		// Jobs on a board have already been reconciled, so this cannot fail.
		if at, err := reconcile.ParseDatePosted(j.DatePosted); err == nil {
			c.PostedAgo = reconcile.TimeAgo(at, s.Now)
		}
		cards = append(cards, c)
	}
	return cards
}

// NewCount returns how many displayed postings are flagged new.
func (s Snapshot) NewCount() int {
	return reconcile.Result{New: s.New}.NewCount()
}

// NewIDs returns the identifiers flagged new, in display order.
func (s Snapshot) NewIDs() []string {
	ids := make([]string, 0)
	for _, j := range s.Jobs {
		if s.New[j.ID] {
			ids = append(ids, j.ID)
		}
	}
	return ids
}

// CountText is the job-count header, e.g. "3 jobs found".
func (s Snapshot) CountText() string {
	return fmt.Sprintf("%d jobs found", len(s.Jobs))
}

// LastUpdated is the relative time of the last successful fetch, or "" if
// none has completed yet.
func (s Snapshot) LastUpdated() string {
	if s.LastFetch.IsZero() {
		return ""
	}
	return reconcile.TimeAgo(s.LastFetch, s.Now)
}
