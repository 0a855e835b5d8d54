// Package board owns the dashboard's single mutable render state.
//
// Display status graph:
//
//	IDLE ──► LOADING ──► POPULATED
//	            ▲   │
//	            │   └──► NO_RESULTS
//	            │
//	POPULATED / NO_RESULTS ──► LOADING
//
// LOADING may also go to LOADING when a newer cycle starts before the
// previous one completes. A settled board may go straight to another settled
// status only when stale responses are not discarded and a late response
// lands after a newer one.
package board

import "fmt"

// Status is what the renderer should show.
type Status string

const (
	StatusIdle      Status = "IDLE"
	StatusLoading   Status = "LOADING"
	StatusNoResults Status = "NO_RESULTS"
	StatusPopulated Status = "POPULATED"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[Status][]Status{
	StatusIdle:      {StatusLoading},
	StatusLoading:   {StatusLoading, StatusPopulated, StatusNoResults},
	StatusPopulated: {StatusLoading, StatusPopulated, StatusNoResults},
	StatusNoResults: {StatusLoading, StatusPopulated, StatusNoResults},
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusIdle, StatusLoading, StatusNoResults, StatusPopulated:
		return st, nil
	}
	return "", fmt.Errorf("unknown board status %q", s)
}

// IsTransitionAllowed returns true when moving from → to is permitted.
func IsTransitionAllowed(from, to Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsSettled returns true when a cycle has finished and the board can be
// re-triggered without a fetch in flight.
func IsSettled(s Status) bool { return s == StatusPopulated || s == StatusNoResults }
