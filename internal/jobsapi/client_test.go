package jobsapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"jobmate/dashboard-service/internal/jobsapi"
	"jobmate/dashboard-service/internal/model"
)

func filter(terms ...string) model.SearchFilter {
	f := model.DefaultFilter()
	f.SetTerms(terms)
	return f
}

// ── SearchParams ───────────────────────────────────────────────────────────

func TestSearchParams(t *testing.T) {
	f := filter("Web Developer", "DevOps")
	f.RemoteOnly = false
	f.TimePeriodDays = 7

	got := jobsapi.SearchParams(f)
	want := map[string]string{
		"query":         "Web Developer,DevOps",
		"min_salary":    "200000",
		"remote_only":   "false",
		"fulltime_only": "true",
		"time_period":   "7",
	}
	for k, v := range want {
		if got.Get(k) != v {
			t.Errorf("param %s = %q, want %q", k, got.Get(k), v)
		}
	}
}

func TestSearchParams_OmitsEmptyQuery(t *testing.T) {
	if got := jobsapi.SearchParams(filter()); got.Has("query") {
		t.Errorf("query should be omitted without terms, got %q", got.Get("query"))
	}
}

// ── SearchJobs ─────────────────────────────────────────────────────────────

func TestSearchJobs_DecodesPostings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/jobs" || r.Method != http.MethodGet {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if q := r.URL.Query().Get("query"); q != "Go" {
			t.Errorf("query = %q, want Go", q)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"j1","title":"Go Dev","company":"Acme","location":"Remote",
			"salary":"$210,000","description":"d","url":"https://x/j1",
			"date_posted":"2025-03-01T10:00:00.123456","date_found":"2025-03-01T11:00:00",
			"is_remote":true,"is_fulltime":true}]`))
	}))
	defer srv.Close()

	jobs, err := jobsapi.NewClient(srv.URL+"/", 0).SearchJobs(context.Background(), filter("Go"))
	if err != nil {
		t.Fatalf("SearchJobs: %v", err)
	}
	want := []model.JobPosting{{
		ID: "j1", Title: "Go Dev", Company: "Acme", Location: "Remote", Salary: "$210,000",
		Description: "d", URL: "https://x/j1", DatePosted: "2025-03-01T10:00:00.123456",
		DateFound: "2025-03-01T11:00:00", IsRemote: true, IsFullTime: true,
	}}
	if !reflect.DeepEqual(jobs, want) {
		t.Errorf("jobs = %+v\nwant %+v", jobs, want)
	}
}

func TestSearchJobs_Non2xxIsNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := jobsapi.NewClient(srv.URL, 0).SearchJobs(context.Background(), filter())
	if !errors.Is(err, jobsapi.ErrNetworkFailure) {
		t.Fatalf("err = %v, want ErrNetworkFailure", err)
	}
	var se *jobsapi.StatusError
	if !errors.As(err, &se) || se.Code != http.StatusInternalServerError {
		t.Errorf("err = %v, want StatusError 500", err)
	}
}

func TestSearchJobs_BadJSONIsNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	_, err := jobsapi.NewClient(srv.URL, 0).SearchJobs(context.Background(), filter())
	if !errors.Is(err, jobsapi.ErrNetworkFailure) {
		t.Errorf("err = %v, want ErrNetworkFailure", err)
	}
}

func TestSearchJobs_UnreachableIsNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := jobsapi.NewClient(url, 0).SearchJobs(context.Background(), filter())
	if !errors.Is(err, jobsapi.ErrNetworkFailure) {
		t.Errorf("err = %v, want ErrNetworkFailure", err)
	}
}

// ── TriggerRefresh ─────────────────────────────────────────────────────────

func TestTriggerRefresh_SendsFilter(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/update-jobs" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"message":"Added 4 new jobs"}`))
	}))
	defer srv.Close()

	msg, err := jobsapi.NewClient(srv.URL, 0).TriggerRefresh(context.Background(), filter("DevOps"))
	if err != nil {
		t.Fatalf("TriggerRefresh: %v", err)
	}
	if msg != "Added 4 new jobs" {
		t.Errorf("msg = %q", msg)
	}
	want := map[string]any{
		"search_terms":  []any{"DevOps"},
		"min_salary":    float64(200000),
		"remote_only":   true,
		"fulltime_only": true,
		"days_ago":      float64(1),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("body = %v\nwant %v", got, want)
	}
}

func TestTriggerRefresh_EmptyMessageIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":""}`))
	}))
	defer srv.Close()

	_, err := jobsapi.NewClient(srv.URL, 0).TriggerRefresh(context.Background(), filter())
	if !errors.Is(err, jobsapi.ErrNetworkFailure) {
		t.Errorf("err = %v, want ErrNetworkFailure", err)
	}
}

// ── DefaultTerms ───────────────────────────────────────────────────────────

func TestDefaultTerms(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/search-terms" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`["Web Developer","Website Dev","CraftCMS","DevOps"]`))
	}))
	defer srv.Close()

	terms, err := jobsapi.NewClient(srv.URL, 0).DefaultTerms(context.Background())
	if err != nil {
		t.Fatalf("DefaultTerms: %v", err)
	}
	want := []string{"Web Developer", "Website Dev", "CraftCMS", "DevOps"}
	if !reflect.DeepEqual(terms, want) {
		t.Errorf("terms = %v, want %v", terms, want)
	}
}
