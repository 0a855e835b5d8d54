// Package pgsource searches job postings directly in the backend's Postgres
// `jobs` table. It is a read-only alternative to the HTTP search endpoint.
package pgsource

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobmate/dashboard-service/internal/model"
)

// Querier is the subset of *pgxpool.Pool the source needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Source implements board.JobSearcher over Postgres.
type Source struct {
	db  Querier
	now func() time.Time
}

// New returns a Source reading through db.
func New(db Querier) *Source {
	return &Source{db: db, now: time.Now}
}

// BuildQuery returns the SQL and arguments for f, evaluated at now.
// Salary is a display string in the table, so MinSalary is not applied here.
func BuildQuery(f model.SearchFilter, now time.Time) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, title, company, location, COALESCE(salary, ''),
	        COALESCE(description, ''), url, date_posted, date_found,
	        is_remote, is_fulltime
	 FROM jobs
	 WHERE date_posted >= $1`)

	args := []any{now.UTC().Add(-time.Duration(f.TimePeriodDays) * 24 * time.Hour)}

	if len(f.Terms) > 0 {
		patterns := make([]string, len(f.Terms))
		for i, t := range f.Terms {
			patterns[i] = "%" + escapeLike(t) + "%"
		}
		args = append(args, patterns)
		sb.WriteString(` AND title ILIKE ANY($` + strconv.Itoa(len(args)) + `)`)
	}
	if f.RemoteOnly {
		sb.WriteString(` AND is_remote = true`)
	}
	if f.FullTimeOnly {
		sb.WriteString(` AND is_fulltime = true`)
	}
	return sb.String(), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// SearchJobs returns postings matching f.
func (s *Source) SearchJobs(ctx context.Context, f model.SearchFilter) ([]model.JobPosting, error) {
	sql, args := BuildQuery(f, s.now())
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]model.JobPosting, 0)
	for rows.Next() {
		var (
			j             model.JobPosting
			posted, found time.Time
		)
		if err := rows.Scan(
			&j.ID, &j.Title, &j.Company, &j.Location, &j.Salary,
			&j.Description, &j.URL, &posted, &found,
			&j.IsRemote, &j.IsFullTime,
		); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		j.DatePosted = posted.UTC().Format(time.RFC3339Nano)
		j.DateFound = found.UTC().Format(time.RFC3339Nano)
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// NewPool creates and verifies a pgxpool connection pool.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return pool, nil
}
