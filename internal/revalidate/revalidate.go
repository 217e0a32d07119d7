// Package revalidate signals the hosting front end to drop cached
// renders for a path after a mutation. The notification is
// fire-and-forget: failures are logged, never returned.
package revalidate

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Channel the front end subscribes to for invalidated paths.
const channel = "revalidate:paths"

// Notifier publishes page-cache invalidations.
type Notifier interface {
	Revalidate(ctx context.Context, path string)
}

// RedisNotifier publishes invalidated paths on a Redis channel.
type RedisNotifier struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewRedis parses the URL and returns a connected notifier.
func NewRedis(url string, log zerolog.Logger) (*RedisNotifier, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisNotifier{client: redis.NewClient(opt), log: log}, nil
}

func (n *RedisNotifier) Revalidate(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := n.client.Publish(ctx, channel, path).Err(); err != nil {
		n.log.Warn().Err(err).Str("path", path).Msg("revalidate publish failed")
	}
}

// Close releases the underlying Redis connection.
func (n *RedisNotifier) Close() error {
	return n.client.Close()
}

// Nop is used when no Redis is configured.
type Nop struct{}

func (Nop) Revalidate(context.Context, string) {}
