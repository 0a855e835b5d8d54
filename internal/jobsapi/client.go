// Package jobsapi talks to the job-search backend: searching postings,
// triggering a re-scrape, and loading the default search terms.
package jobsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"jobmate/dashboard-service/internal/model"
)

const (
	jobsPath        = "/api/jobs"
	updateJobsPath  = "/api/update-jobs"
	searchTermsPath = "/api/search-terms"
	defaultTimeout  = 15 * time.Second
	maxErrorBody    = 512
)

// ErrNetworkFailure covers every way a backend call can fail: transport
// errors, non-2xx statuses, and undecodable bodies.
var ErrNetworkFailure = errors.New("network failure")

// StatusError is returned for non-2xx responses. It matches
// ErrNetworkFailure under errors.Is.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Code, e.Body)
}

func (e *StatusError) Is(target error) bool { return target == ErrNetworkFailure }

// Client is a job-search backend client.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient constructs a client for the backend at baseURL. A zero timeout
// uses the default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// SearchParams encodes a filter as the backend's query string.
// The query parameter is omitted when there are no terms.
func SearchParams(f model.SearchFilter) url.Values {
	params := url.Values{}
	if len(f.Terms) > 0 {
		params.Set("query", f.Query())
	}
	params.Set("min_salary", strconv.Itoa(f.MinSalary))
	params.Set("remote_only", strconv.FormatBool(f.RemoteOnly))
	params.Set("fulltime_only", strconv.FormatBool(f.FullTimeOnly))
	params.Set("time_period", strconv.Itoa(f.TimePeriodDays))
	return params
}

// SearchJobs returns the postings matching f, in backend order.
func (c *Client) SearchJobs(ctx context.Context, f model.SearchFilter) ([]model.JobPosting, error) {
	reqURL := c.baseURL + jobsPath + "?" + SearchParams(f).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	jobs := make([]model.JobPosting, 0)
	if err := c.do(req, &jobs); err != nil {
		return nil, fmt.Errorf("search jobs: %w", err)
	}
	return jobs, nil
}

// refreshRequest is the body of POST /api/update-jobs.
type refreshRequest struct {
	SearchTerms  []string `json:"search_terms"`
	MinSalary    int      `json:"min_salary"`
	RemoteOnly   bool     `json:"remote_only"`
	FullTimeOnly bool     `json:"fulltime_only"`
	DaysAgo      int      `json:"days_ago"`
}

type refreshResponse struct {
	Message string `json:"message"`
}

// TriggerRefresh asks the backend to re-scrape for f and returns its
// acknowledgement message.
func (c *Client) TriggerRefresh(ctx context.Context, f model.SearchFilter) (string, error) {
	body, err := json.Marshal(refreshRequest{
		SearchTerms:  f.Terms,
		MinSalary:    f.MinSalary,
		RemoteOnly:   f.RemoteOnly,
		FullTimeOnly: f.FullTimeOnly,
		DaysAgo:      f.TimePeriodDays,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+updateJobsPath, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp refreshResponse
	if err := c.do(req, &resp); err != nil {
		return "", fmt.Errorf("trigger refresh: %w", err)
	}
	if resp.Message == "" {
		return "", fmt.Errorf("trigger refresh: empty acknowledgement: %w", ErrNetworkFailure)
	}
	return resp.Message, nil
}

// DefaultTerms returns the backend's default search terms.
func (c *Client) DefaultTerms(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+searchTermsPath, nil)
	if err != nil {
		return nil, err
	}

	terms := make([]string, 0)
	if err := c.do(req, &terms); err != nil {
		return nil, fmt.Errorf("default terms: %w", err)
	}
	return terms, nil
}

// do sends req and decodes a 2xx JSON body into out.
func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("http %s: %v: %w", req.Method, err, ErrNetworkFailure)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %v: %w", err, ErrNetworkFailure)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("json unmarshal: %v: %w", err, ErrNetworkFailure)
	}
	return nil
}
