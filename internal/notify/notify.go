// Package notify publishes refresh completions to a redis channel so
// downstream consumers (dashboards, alerting) can react without polling
// the cache file.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/txbeach/sandcal/internal/tournament"
)

// DefaultChannel is the pub/sub channel refresh summaries land on.
const DefaultChannel = "sandcal.refresh"

// Publisher announces completed refreshes over redis pub/sub.
type Publisher struct {
	client  *redis.Client
	channel string
}

// NewPublisher creates a publisher from a redis URL
// (redis://host:port/db). The connection is lazy; a bad address only
// surfaces on first publish.
func NewPublisher(redisURL, channel string) (*Publisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	if channel == "" {
		channel = DefaultChannel
	}
	return &Publisher{client: redis.NewClient(opts), channel: channel}, nil
}

// refreshMessage is the wire shape of one announcement.
type refreshMessage struct {
	UpdatedAt string            `json:"updated_at"`
	Count     int               `json:"count"`
	Errors    map[string]string `json:"errors"`
}

// PublishRefresh announces one completed refresh.
func (p *Publisher) PublishRefresh(ctx context.Context, agg tournament.Aggregate) error {
	data, err := json.Marshal(refreshMessage{
		UpdatedAt: agg.UpdatedAt,
		Count:     len(agg.Tournaments),
		Errors:    agg.Errors,
	})
	if err != nil {
		return fmt.Errorf("marshaling refresh message: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publishing to %s: %w", p.channel, err)
	}
	return nil
}

// Close releases the redis connection.
func (p *Publisher) Close() error {
	return p.client.Close()
}
