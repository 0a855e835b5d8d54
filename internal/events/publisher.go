// Package events fans board updates out over Redis pub/sub so renderers in
// other processes can follow the dashboard.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"jobmate/dashboard-service/internal/board"
)

// ChannelBoardUpdated is the channel and event type published after every
// applied render cycle.
const ChannelBoardUpdated = "EVENT_BOARD_UPDATED"

// BoardUpdated is the JSON payload of ChannelBoardUpdated.
type BoardUpdated struct {
	Type       string    `json:"type"`
	Generation uint64    `json:"generation"`
	Status     string    `json:"status"`
	JobCount   int       `json:"jobCount"`
	NewCount   int       `json:"newCount"`
	NewIDs     []string  `json:"newIds"`
	Error      string    `json:"error,omitempty"`
	At         time.Time `json:"at"`
}

// NewBoardUpdated builds the event for a snapshot.
func NewBoardUpdated(s board.Snapshot) BoardUpdated {
	return BoardUpdated{
		Type:       ChannelBoardUpdated,
		Generation: s.Generation,
		Status:     string(s.Status),
		JobCount:   len(s.Jobs),
		NewCount:   s.NewCount(),
		NewIDs:     s.NewIDs(),
		Error:      s.Error,
		At:         s.Now.UTC(),
	}
}

// Publisher is the subset of *redis.Client the publisher needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// BoardPublisher implements board.Listener.
type BoardPublisher struct {
	rdb Publisher
}

// NewBoardPublisher returns a listener that publishes through rdb.
func NewBoardPublisher(rdb Publisher) *BoardPublisher {
	return &BoardPublisher{rdb: rdb}
}

// BoardUpdated publishes s. Failures are logged and otherwise ignored.
func (p *BoardPublisher) BoardUpdated(ctx context.Context, s board.Snapshot) {
	event, err := json.Marshal(NewBoardUpdated(s))
	if err != nil {
		slog.Warn("marshal board event failed", "err", err)
		return
	}
	if err := p.rdb.Publish(ctx, ChannelBoardUpdated, event).Err(); err != nil {
		slog.Warn("publish "+ChannelBoardUpdated+" failed", "generation", s.Generation, "err", err)
	}
}

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}
