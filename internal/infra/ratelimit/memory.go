package ratelimit

import (
	"context"
	"sync"
	"time"
)

type memoryLimiter struct {
	mu       sync.Mutex
	now      func() time.Time
	attempts map[string]*window
	limit    int
	per      time.Duration
	maxKeys  int
}

type window struct {
	count int
	ends  time.Time
}

type MemoryConfig struct {
	Limit   int
	Window  time.Duration
	Now     func() time.Time
	MaxKeys int
}

// NewMemoryLimiter builds an in-process login limiter. Suitable for a single
// node; use the redis backend when several instances share the login edge.
func NewMemoryLimiter(cfg MemoryConfig) LoginLimiter {
	if cfg.Limit <= 0 {
		return Unlimited{}
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.MaxKeys <= 0 {
		cfg.MaxKeys = 10000
	}
	return &memoryLimiter{
		now:      cfg.Now,
		attempts: make(map[string]*window),
		limit:    cfg.Limit,
		per:      cfg.Window,
		maxKeys:  cfg.MaxKeys,
	}
}

func (m *memoryLimiter) Allow(_ context.Context, username string) (bool, time.Time, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.attempts[username]
	if ok && now.After(w.ends) {
		delete(m.attempts, username)
		ok = false
	}
	if !ok {
		if len(m.attempts) >= m.maxKeys {
			m.gc(now)
		}
		if len(m.attempts) >= m.maxKeys {
			// At capacity the limiter fails open: rejecting logins because an
			// attacker filled the key space would be a denial of service.
			return true, time.Time{}, nil
		}
		w = &window{ends: now.Add(m.per)}
		m.attempts[username] = w
	}

	if w.count < m.limit {
		w.count++
		return true, w.ends, nil
	}
	return false, w.ends, nil
}

func (m *memoryLimiter) gc(now time.Time) {
	for key, w := range m.attempts {
		if now.After(w.ends) {
			delete(m.attempts, key)
		}
	}
}
