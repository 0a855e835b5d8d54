// Package model defines shared data structures for the dashboard service.
package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Defaults mirror the dashboard's initial form values.
const (
	DefaultMinSalary      = 200000
	DefaultTimePeriodDays = 1
)

// JobPosting is a single offer as returned by the job-search backend.
// DatePosted is kept verbatim; the reconciler is the one place that parses it.
type JobPosting struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Salary      string `json:"salary"`
	Description string `json:"description"`
	URL         string `json:"url"`
	DatePosted  string `json:"date_posted"`
	DateFound   string `json:"date_found,omitempty"`
	IsRemote    bool   `json:"is_remote,omitempty"`
	IsFullTime  bool   `json:"is_fulltime,omitempty"`
}

// SearchFilter is the user's current search form.
type SearchFilter struct {
	Terms          []string `json:"searchTerms" yaml:"search_terms"`
	MinSalary      int      `json:"minSalary" yaml:"min_salary"`
	RemoteOnly     bool     `json:"remoteOnly" yaml:"remote_only"`
	FullTimeOnly   bool     `json:"fullTimeOnly" yaml:"fulltime_only"`
	TimePeriodDays int      `json:"timePeriodDays" yaml:"time_period_days"`
}

// DefaultFilter returns the filter the dashboard starts with before the
// backend's default terms are loaded.
func DefaultFilter() SearchFilter {
	return SearchFilter{
		Terms:          []string{},
		MinSalary:      DefaultMinSalary,
		RemoteOnly:     true,
		FullTimeOnly:   true,
		TimePeriodDays: DefaultTimePeriodDays,
	}
}

var (
	// ErrDuplicateTerm is returned when a term is already part of the filter.
	ErrDuplicateTerm = errors.New("search term already present")
	// ErrTermNotFound is returned when removing a term the filter does not hold.
	ErrTermNotFound = errors.New("search term not found")
)

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// Validate checks the numeric fields of the filter.
func (f SearchFilter) Validate() error {
	if f.MinSalary < 0 {
		return &ValidationError{Msg: fmt.Sprintf("minSalary must be non-negative, got %d", f.MinSalary)}
	}
	if f.TimePeriodDays < 1 {
		return &ValidationError{Msg: fmt.Sprintf("timePeriodDays must be a positive integer, got %d", f.TimePeriodDays)}
	}
	return nil
}

// Clone returns a copy that shares no memory with f.
func (f SearchFilter) Clone() SearchFilter {
	f.Terms = slices.Clone(f.Terms)
	if f.Terms == nil {
		f.Terms = []string{}
	}
	return f
}

// AddTerm appends a trimmed term, keeping insertion order.
func (f *SearchFilter) AddTerm(term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return &ValidationError{Msg: "search term must not be blank"}
	}
	if slices.Contains(f.Terms, term) {
		return fmt.Errorf("%q: %w", term, ErrDuplicateTerm)
	}
	f.Terms = append(f.Terms, term)
	return nil
}

// RemoveTerm drops term from the filter.
func (f *SearchFilter) RemoveTerm(term string) error {
	i := slices.Index(f.Terms, term)
	if i < 0 {
		return fmt.Errorf("%q: %w", term, ErrTermNotFound)
	}
	f.Terms = slices.Delete(f.Terms, i, i+1)
	return nil
}

// SetTerms replaces the term list, trimming and dropping blanks and duplicates.
func (f *SearchFilter) SetTerms(terms []string) {
	f.Terms = make([]string, 0, len(terms))
	for _, t := range terms {
		_ = f.AddTerm(t)
	}
}

// Query is the comma-joined term list sent as the backend's `query` parameter.
func (f SearchFilter) Query() string {
	return strings.Join(f.Terms, ",")
}
