package config_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"jobmate/dashboard-service/internal/config"
	"jobmate/dashboard-service/internal/model"
)

// chdirTemp keeps godotenv from picking up a stray .env in the package dir.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"JOBS_API_URL", "DASHBOARD_PORT", "FETCH_INTERVAL_MINUTES", "HTTP_TIMEOUT_SECONDS",
		"DISCARD_STALE_RESPONSES", "DASHBOARD_FILTERS_FILE", "DATABASE_URL", "REDIS_URL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_RequiresJobsAPIURL(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)
	if _, err := config.Load(); err == nil {
		t.Error("Load() without JOBS_API_URL expected error, got nil")
	}
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)
	t.Setenv("JOBS_API_URL", "http://localhost:5000")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8083" || cfg.FetchIntervalMinutes != 5 || !cfg.DiscardStale {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.Filter.MinSalary != model.DefaultMinSalary || !cfg.Filter.RemoteOnly || !cfg.Filter.FullTimeOnly {
		t.Errorf("Filter = %+v", cfg.Filter)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"FETCH_INTERVAL_MINUTES":  "0",
		"HTTP_TIMEOUT_SECONDS":    "soon",
		"DISCARD_STALE_RESPONSES": "maybe",
	}
	for key, val := range cases {
		chdirTemp(t)
		clearEnv(t)
		t.Setenv("JOBS_API_URL", "http://localhost:5000")
		t.Setenv(key, val)
		if _, err := config.Load(); err == nil {
			t.Errorf("Load() with %s=%q expected error, got nil", key, val)
		}
	}
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	clearEnv(t)
	os.Unsetenv("JOBS_API_URL")
	os.Unsetenv("DISCARD_STALE_RESPONSES")
	env := "JOBS_API_URL=http://backend:5000\nDISCARD_STALE_RESPONSES=false\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.JobsAPIURL != "http://backend:5000" || cfg.DiscardStale {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadFilterFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filters.yaml")
	yml := `search_terms: ["Web Developer", "DevOps", "DevOps", ""]
min_salary: 150000
remote_only: false
time_period_days: 7
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}

	f, err := config.LoadFilterFile(path)
	if err != nil {
		t.Fatalf("LoadFilterFile: %v", err)
	}
	if !slices.Equal(f.Terms, []string{"Web Developer", "DevOps"}) {
		t.Errorf("Terms = %v", f.Terms)
	}
	if f.MinSalary != 150000 || f.RemoteOnly || !f.FullTimeOnly || f.TimePeriodDays != 7 {
		t.Errorf("filter = %+v", f)
	}
}

func TestLoadFilterFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filters.yaml")
	if err := os.WriteFile(path, []byte("time_period_days: 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := config.LoadFilterFile(path); err == nil {
		t.Error("LoadFilterFile with time_period_days: 0 expected error")
	}
}
