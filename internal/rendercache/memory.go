package rendercache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// memoryCache is the in-process fallback used when no Redis is configured.
type memoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func NewMemory(ttl time.Duration) Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &memoryCache{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

func (m *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	key = strings.TrimSpace(key)
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrCacheMiss
	}
	if !m.now().Before(e.expiresAt) {
		m.mu.Lock()
		if cur, ok := m.entries[key]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, ErrCacheMiss
	}
	return append([]byte(nil), e.data...), nil
}

func (m *memoryCache) Set(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	m.entries[strings.TrimSpace(key)] = memoryEntry{
		data:      append([]byte(nil), data...),
		expiresAt: m.now().Add(m.ttl),
	}
	m.mu.Unlock()
	return nil
}

func (m *memoryCache) Close() error {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()
	return nil
}
