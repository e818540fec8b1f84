package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultMaxKeys = 10000

type bucket struct {
	tokens float64
	last   time.Time
}

// Memory is a per-key token bucket: capacity Burst, refilled at
// PerMinute/60 tokens per second. Idle keys are evicted least recently used
// first once MaxKeys is reached; an evicted key starts over with a full bucket.
type Memory struct {
	mu       sync.Mutex
	capacity float64
	rate     float64
	buckets  *lru.Cache[string, *bucket]
	now      func() time.Time
}

func NewMemory(s Settings) *Memory {
	return newMemory(s, defaultMaxKeys, time.Now)
}

func newMemory(s Settings, maxKeys int, now func() time.Time) *Memory {
	burst := s.Burst
	if burst <= 0 {
		burst = 1
	}
	perMinute := s.PerMinute
	if perMinute <= 0 {
		perMinute = 1
	}

	cache, err := lru.New[string, *bucket](maxKeys)
	if err != nil {
		panic(err)
	}

	return &Memory{
		capacity: float64(burst),
		rate:     float64(perMinute) / 60,
		buckets:  cache,
		now:      now,
	}
}

func (m *Memory) Allow(_ context.Context, key string) (Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()

	b, ok := m.buckets.Get(key)
	if !ok {
		b = &bucket{tokens: m.capacity, last: now}
		m.buckets.Add(key, b)
	}

	elapsed := now.Sub(b.last).Seconds()
	if elapsed > 0 {
		b.tokens = math.Min(m.capacity, b.tokens+elapsed*m.rate)
		b.last = now
	}

	if b.tokens >= 1 {
		b.tokens--
		return Decision{Allowed: true, Remaining: int(b.tokens)}, nil
	}

	wait := (1 - b.tokens) / m.rate
	return Decision{
		Allowed:    false,
		RetryAfter: time.Duration(math.Ceil(wait)) * time.Second,
	}, nil
}
