// jobmate-dashboard-service
//
// Live job-posting dashboard. Polls the jobs backend on a schedule,
// reconciles each result against the previous one to flag new postings,
// and serves the render plan over HTTP:
//   - GET  /board: sorted cards with NEW badges and relative times
//   - PUT  /filter: salary, remote, full-time and period filters
//   - POST /terms: search term management
//   - POST /refresh: ask the backend to re-scrape, then re-fetch
//
// Publishes EVENT_BOARD_UPDATED to Redis when REDIS_URL is set.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobmate/dashboard-service/internal/board"
	"jobmate/dashboard-service/internal/config"
	"jobmate/dashboard-service/internal/events"
	"jobmate/dashboard-service/internal/jobsapi"
	"jobmate/dashboard-service/internal/pgsource"
	"jobmate/dashboard-service/internal/render"
	"jobmate/dashboard-service/internal/scheduler"
	"jobmate/dashboard-service/internal/server"
)

const version = "1.0.0"

func main() {
	tui := flag.Bool("tui", false, "render the board in the terminal after every cycle")
	links := flag.Bool("links", false, "print job URLs as clickable terminal links (with -tui)")
	flag.Parse()

	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[dashboard-service] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := jobsapi.NewClient(cfg.JobsAPIURL, cfg.HTTPTimeout)

	// ── Job source ───────────────────────────────────────────────────────────
	var searcher board.JobSearcher = api
	if cfg.DatabaseURL != "" {
		log.Println("[dashboard-service] Connecting to PostgreSQL...")
		pool, err := pgsource.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("[dashboard-service] PostgreSQL: %v", err)
		}
		defer pool.Close()
		searcher = pgsource.New(pool)
		log.Println("[dashboard-service] PostgreSQL connected, searching the jobs table directly")
	}

	b := board.New(searcher, api, cfg.Filter, board.Options{DiscardStale: cfg.DiscardStale})

	// ── Redis ────────────────────────────────────────────────────────────────
	if cfg.RedisURL != "" {
		log.Println("[dashboard-service] Connecting to Redis...")
		rdb, err := events.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("[dashboard-service] Redis: %v", err)
		}
		defer rdb.Close()
		b.AddListener(events.NewBoardPublisher(rdb))
		log.Println("[dashboard-service] Redis connected ✓")
	}

	if *tui {
		b.AddListener(render.NewTerminal(os.Stdout, *links))
	}

	// ── Default search terms ─────────────────────────────────────────────────
	if len(cfg.Filter.Terms) == 0 {
		if err := b.LoadDefaultTerms(ctx, api); err != nil {
			log.Printf("[dashboard-service] %v; starting with no search terms", err)
		} else {
			log.Printf("[dashboard-service] Loaded search terms: %s", b.Filter().Query())
		}
	}

	// ── Scheduler ────────────────────────────────────────────────────────────
	sched := scheduler.New(b, cfg.FetchIntervalMinutes)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("[dashboard-service] Scheduler: %v", err)
	}

	// ── HTTP server ──────────────────────────────────────────────────────────
	h := server.NewHandler(b, version)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      h.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.HTTPTimeout + 10*time.Second,
	}

	go func() {
		log.Printf("[dashboard-service] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[dashboard-service] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[dashboard-service] Shutting down...")
	cancel()
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[dashboard-service] Shutdown error: %v", err)
	}
	log.Println("[dashboard-service] Stopped.")
}
