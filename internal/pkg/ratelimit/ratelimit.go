// Package ratelimit provides fixed-window request limiters keyed by client.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter decides whether one more request for key fits in the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Memory is a process-local fixed-window limiter, used when Redis is not configured.
type Memory struct {
	limit    int
	window   time.Duration
	now      func() time.Time
	mu       sync.Mutex
	visitors map[string]*visitor
}

type visitor struct {
	count     int
	resetTime time.Time
}

func NewMemory(limit int, window time.Duration) *Memory {
	limit, window = normalize(limit, window)
	return &Memory{
		limit:    limit,
		window:   window,
		now:      time.Now,
		visitors: map[string]*visitor{},
	}
}

func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	v := m.visitors[key]
	if v == nil || now.After(v.resetTime) {
		m.visitors[key] = &visitor{count: 1, resetTime: now.Add(m.window)}
		m.sweep(now)
		return true, nil
	}

	if v.count >= m.limit {
		return false, nil
	}
	v.count++
	return true, nil
}

// sweep drops expired visitors so the map does not grow without bound.
func (m *Memory) sweep(now time.Time) {
	for k, v := range m.visitors {
		if now.After(v.resetTime) {
			delete(m.visitors, k)
		}
	}
}

func normalize(limit int, window time.Duration) (int, time.Duration) {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	return limit, window
}
