// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing or malformed, the process exits.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"jobmate/dashboard-service/internal/model"
)

// Config holds all runtime configuration for the dashboard service.
type Config struct {
	Port                 string
	JobsAPIURL           string
	DatabaseURL          string // optional: search jobs straight from Postgres
	RedisURL             string // optional: publish board events
	FetchIntervalMinutes int
	DiscardStale         bool
	HTTPTimeout          time.Duration
	Filter               model.SearchFilter
}

// Load reads a .env file if one exists, then environment variables, and
// returns a validated Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	apiURL := os.Getenv("JOBS_API_URL")
	if apiURL == "" {
		return nil, fmt.Errorf("JOBS_API_URL is required")
	}

	interval, err := positiveInt("FETCH_INTERVAL_MINUTES", 5)
	if err != nil {
		return nil, err
	}

	timeoutSecs, err := positiveInt("HTTP_TIMEOUT_SECONDS", 15)
	if err != nil {
		return nil, err
	}

	discard := true
	if s := os.Getenv("DISCARD_STALE_RESPONSES"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("DISCARD_STALE_RESPONSES must be a boolean, got %q", s)
		}
		discard = v
	}

	filter := model.DefaultFilter()
	if path := os.Getenv("DASHBOARD_FILTERS_FILE"); path != "" {
		filter, err = LoadFilterFile(path)
		if err != nil {
			return nil, err
		}
	}

	port := os.Getenv("DASHBOARD_PORT")
	if port == "" {
		port = "8083"
	}

	return &Config{
		Port:                 port,
		JobsAPIURL:           apiURL,
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		RedisURL:             os.Getenv("REDIS_URL"),
		FetchIntervalMinutes: interval,
		DiscardStale:         discard,
		HTTPTimeout:          time.Duration(timeoutSecs) * time.Second,
		Filter:               filter,
	}, nil
}

// LoadFilterFile reads the initial search filter from a YAML file. Fields
// absent from the file keep their defaults.
func LoadFilterFile(path string) (model.SearchFilter, error) {
	filter := model.DefaultFilter()

	data, err := os.ReadFile(path)
	if err != nil {
		return filter, fmt.Errorf("read filters file: %w", err)
	}
	if err := yaml.Unmarshal(data, &filter); err != nil {
		return filter, fmt.Errorf("parse filters file %s: %w", path, err)
	}

	// Re-add terms so blanks and duplicates are dropped.
	filter.SetTerms(filter.Terms)
	if err := filter.Validate(); err != nil {
		return filter, fmt.Errorf("filters file %s: %w", path, err)
	}
	return filter, nil
}

func positiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, s)
	}
	return v, nil
}
