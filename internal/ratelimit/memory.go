package ratelimit

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const shardCount = 16

type windowState struct {
	count     int
	expiresAt time.Time
}

type shard struct {
	mu      sync.Mutex
	windows *expirable.LRU[string, *windowState]
}

// MemoryLimiter keeps windows in process memory. Keys are spread over
// lock-striped shards; each shard is a capacity-bounded LRU whose entries
// expire one window after they were opened, so idle accounts are reclaimed.
// When a shard is full the least recently used account loses its window,
// which only ever errs towards admitting.
type MemoryLimiter struct {
	max    int
	window time.Duration
	now    func() time.Time
	shards [shardCount]*shard
}

// NewMemory returns a limiter admitting max submissions per window per key,
// remembering at most capacity keys.
func NewMemory(max int, window time.Duration, capacity int) (*MemoryLimiter, error) {
	if max <= 0 {
		return nil, errors.New("max must be > 0")
	}
	if window <= 0 {
		return nil, errors.New("window must be > 0")
	}
	if capacity < shardCount {
		capacity = shardCount
	}

	l := &MemoryLimiter{
		max:    max,
		window: window,
		now:    time.Now,
	}

	perShard := capacity / shardCount
	for i := range l.shards {
		l.shards[i] = &shard{
			windows: expirable.NewLRU[string, *windowState](perShard, nil, window),
		}
	}

	return l, nil
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := l.now()
	s := l.shardFor(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows.Get(key)
	if !ok || now.After(w.expiresAt) {
		s.windows.Add(key, &windowState{count: 1, expiresAt: now.Add(l.window)})

		return Decision{Allowed: true, Count: 1}, nil
	}

	if w.count < l.max {
		w.count++

		return Decision{Allowed: true, Count: w.count}, nil
	}

	return Decision{
		Allowed:    false,
		Count:      w.count,
		RetryAfter: w.expiresAt.Sub(now),
	}, nil
}

// Len reports how many keys currently hold a window.
func (l *MemoryLimiter) Len() int {
	n := 0

	for _, s := range l.shards {
		n += s.windows.Len()
	}

	return n
}

func (l *MemoryLimiter) shardFor(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))

	return l.shards[h.Sum32()%shardCount]
}
