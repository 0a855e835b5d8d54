// Package render draws the board in a terminal.
package render

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"jobmate/dashboard-service/internal/board"
	"jobmate/dashboard-service/internal/model"
)

// Terminal implements board.Listener by redrawing the board to out after
// every applied cycle.
type Terminal struct {
	mu        sync.Mutex
	out       io.Writer
	hyperlink bool
}

// NewTerminal returns a Terminal writing to out. When hyperlink is set, job
// URLs are emitted as OSC 8 terminal links.
func NewTerminal(out io.Writer, hyperlink bool) *Terminal {
	return &Terminal{out: out, hyperlink: hyperlink}
}

// BoardUpdated renders s.
func (t *Terminal) BoardUpdated(_ context.Context, s board.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, line := range Board(s, t.hyperlink) {
		fmt.Fprintln(t.out, line)
	}
}

// Board returns the lines for a full redraw of s.
func Board(s board.Snapshot, hyperlink bool) []string {
	lines := []string{
		pterm.Bold.Sprint("Job Dashboard"),
		FilterSummary(s.Filter),
	}

	switch s.Status {
	case board.StatusIdle:
		return append(lines, pterm.Gray("Waiting for the first search..."))
	case board.StatusLoading:
		return append(lines, pterm.Cyan("Loading jobs..."))
	case board.StatusNoResults:
		lines = append(lines, pterm.Yellow("No jobs match the current filters."))
		if s.Error != "" {
			lines = append(lines, pterm.Red("Last search failed: "+s.Error))
		}
		return append(lines, lastUpdated(s))
	}

	header := s.CountText()
	if n := s.NewCount(); n > 0 {
		header += fmt.Sprintf(" (%d new)", n)
	}
	lines = append(lines, pterm.Bold.Sprint(header), lastUpdated(s), "")
	for _, c := range s.Cards() {
		lines = append(lines, Card(c, hyperlink)...)
		lines = append(lines, "")
	}
	return lines
}

func lastUpdated(s board.Snapshot) string {
	if lu := s.LastUpdated(); lu != "" {
		return pterm.Gray("Last updated: " + lu)
	}
	return pterm.Gray("Last updated: never")
}

// Card returns the lines for one posting.
func Card(c board.Card, hyperlink bool) []string {
	title := pterm.Bold.Sprint(c.Title)
	if c.IsNew {
		title = pterm.Green("[NEW] ") + title
	}

	place := c.Company
	if c.Location != "" {
		place += " · " + c.Location
	}
	var tags []string
	if c.IsRemote {
		tags = append(tags, "Remote")
	}
	if c.IsFullTime {
		tags = append(tags, "Full-time")
	}
	if len(tags) > 0 {
		place += " [" + strings.Join(tags, ", ") + "]"
	}

	lines := []string{title, "  " + place}
	lines = append(lines, "  Salary: "+ColorizeSalary(c.Salary))
	if c.PostedAgo != "" {
		lines = append(lines, "  Posted "+c.PostedAgo)
	}
	if c.URL != "" {
		lines = append(lines, "  "+FormatURL(c.URL, hyperlink))
	}
	return lines
}

// FilterSummary describes the active filter on one line.
func FilterSummary(f model.SearchFilter) string {
	terms := "any title"
	if len(f.Terms) > 0 {
		terms = strings.Join(f.Terms, ", ")
	}
	parts := []string{
		"Terms: " + terms,
		"Min salary: $" + humanize.Comma(int64(f.MinSalary)),
	}
	if f.RemoteOnly {
		parts = append(parts, "Remote only")
	}
	if f.FullTimeOnly {
		parts = append(parts, "Full-time only")
	}
	if f.TimePeriodDays == 1 {
		parts = append(parts, "Last 1 day")
	} else {
		parts = append(parts, fmt.Sprintf("Last %d days", f.TimePeriodDays))
	}
	return strings.Join(parts, " | ")
}

// ColorizeSalary colours a salary display string by its lower bound.
func ColorizeSalary(salary string) string {
	value := SalaryValue(salary)
	if value == 0 {
		return pterm.Red("Not Available")
	}

	switch {
	case value >= 400000:
		return pterm.Green(salary)
	case value >= 300000:
		return pterm.LightGreen(salary)
	case value >= 100000:
		return pterm.Yellow(salary)
	default:
		return pterm.Red(salary)
	}
}

// SalaryValue extracts the lower bound of a salary string such as
// "$150,000 - $180,000" or "120K". It returns 0 when nothing parses.
func SalaryValue(salary string) int {
	s, _, _ := strings.Cut(salary, "-")
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)

	mult := 1
	if strings.HasSuffix(s, "K") {
		mult = 1000
		s = strings.TrimSuffix(s, "K")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !(v >= 0 && v < 1e12) {
		return 0
	}
	return int(v * float64(mult))
}

// FormatURL formats a URL, optionally as a clickable OSC 8 terminal link.
func FormatURL(url string, hyperlink bool) string {
	if !hyperlink {
		return url
	}
	return fmt.Sprintf("\033]8;;%s\a%s\033]8;;\a", url, "View Job")
}
