package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryLimitRepository keeps per-user counters in process memory. Used as the
// failover target when Redis is unreachable and in tests.
type MemoryLimitRepository struct {
	mu      sync.Mutex
	entries map[int64]*limitEntry
}

type limitEntry struct {
	count     int
	expiresAt time.Time
}

func NewMemoryLimitRepository() *MemoryLimitRepository {
	return &MemoryLimitRepository{entries: make(map[int64]*limitEntry)}
}

func (r *MemoryLimitRepository) Allow(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	entry, ok := r.entries[userID]
	if !ok || now.After(entry.expiresAt) {
		entry = &limitEntry{count: 1, expiresAt: now.Add(window)}
		r.entries[userID] = entry
	} else {
		entry.count++
	}

	return entry.count <= limit, nil
}
