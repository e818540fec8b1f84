package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Redis is a fixed one-minute window limiter shared across instances.
// Each key may make PerMinute requests per window.
type Redis struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRedisClient parses a redis:// URL and checks the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func NewRedis(client *redis.Client, prefix string, s Settings) *Redis {
	limit := s.PerMinute
	if limit <= 0 {
		limit = 1
	}
	return &Redis{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: time.Minute,
		now:    time.Now,
	}
}

func (r *Redis) windowKey(key string, now time.Time) string {
	return fmt.Sprintf("ratelimit:%s:%s:%d", r.prefix, key, now.Unix()/int64(r.window.Seconds()))
}

func (r *Redis) Allow(ctx context.Context, key string) (Decision, error) {
	now := r.now()
	k := r.windowKey(key, now)

	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.Expire(ctx, k, r.window)
		return nil
	})
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit %s: %w", key, err)
	}

	count := int(incr.Val())
	if count <= r.limit {
		return Decision{Allowed: true, Remaining: r.limit - count}, nil
	}

	elapsed := time.Duration(now.Unix()%int64(r.window.Seconds())) * time.Second
	return Decision{Allowed: false, RetryAfter: r.window - elapsed}, nil
}
