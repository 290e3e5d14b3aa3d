package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	data    []byte
	expires time.Time
}

// MemoryCache is a per-process cache used when no redis is configured.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: map[string]entry{}, now: time.Now}
}

func (m *MemoryCache) Get(_ context.Context, key string, dst any) (bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if !m.now().Before(e.expires) {
		m.mu.Lock()
		if cur, ok := m.entries[key]; ok && cur.expires.Equal(e.expires) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return false, nil
	}
	if err := decode(e.data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := encode(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.entries[key] = entry{data: data, expires: m.now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	m.mu.Unlock()
	return nil
}
