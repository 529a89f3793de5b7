package alert

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSink publishes events on a Redis channel for dashboards that
// subscribe to live registry activity.
type RedisSink struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
	timeout time.Duration
}

// NewRedisSink creates a sink publishing to the given channel.
func NewRedisSink(client *redis.Client, channel string, logger *slog.Logger) *RedisSink {
	return &RedisSink{
		client:  client,
		channel: channel,
		logger:  logger,
		timeout: 2 * time.Second,
	}
}

// Notify publishes the event. Failures are logged and swallowed.
func (s *RedisSink) Notify(ctx context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("failed to encode alert event", "kind", event.Kind, "error", err)
		}
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.client.Publish(ctx, s.channel, payload).Err(); err != nil && s.logger != nil {
		s.logger.Error("failed to publish alert event", "kind", event.Kind, "error", err)
	}
}
