package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	rolodex "rolodex/lib"
)

// cacheItem represents an item stored in memory cache
type cacheItem struct {
	value     []byte
	expiresAt time.Time
}

// memoryCache implements the Cache interface using in-memory storage
type memoryCache struct {
	data     map[string]*cacheItem
	mutex    sync.RWMutex
	ttl      time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewMemoryCache creates a new in-memory cache whose entries expire after ttl
// unless Set is given an explicit expiration.
func NewMemoryCache(l rolodex.Logger, ttl time.Duration) Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	cache := &memoryCache{
		data:     make(map[string]*cacheItem),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	go cache.cleanup(time.Minute)

	l.Info("Memory cache initialized", zap.Duration("ttl", ttl))
	return cache
}

// Set stores a value in memory with expiration
func (m *memoryCache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	if expiration <= 0 {
		expiration = m.ttl
	}

	// Copy the value to avoid external modifications
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.data[key] = &cacheItem{
		value:     valueCopy,
		expiresAt: time.Now().Add(expiration),
	}
	return nil
}

// Get retrieves a value from memory
func (m *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	item, exists := m.data[key]
	if !exists || time.Now().After(item.expiresAt) {
		// Expired entries are left for the sweeper.
		return nil, ErrCacheKeyNotFound
	}

	result := make([]byte, len(item.value))
	copy(result, item.value)
	return result, nil
}

// Delete removes a key from memory
func (m *memoryCache) Delete(ctx context.Context, key string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	delete(m.data, key)
	return nil
}

// Exists checks if a live key exists in memory
func (m *memoryCache) Exists(ctx context.Context, key string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	item, exists := m.data[key]
	return exists && !time.Now().After(item.expiresAt)
}

// Clear removes all keys from memory
func (m *memoryCache) Clear(ctx context.Context) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.data = make(map[string]*cacheItem)
	return nil
}

// Close stops the cleanup goroutine
func (m *memoryCache) Close() error {
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})
	return nil
}

// cleanup removes expired items periodically
func (m *memoryCache) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.removeExpired()
		case <-m.stopChan:
			return
		}
	}
}

// removeExpired removes all expired items from the cache
func (m *memoryCache) removeExpired() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := time.Now()
	for key, item := range m.data {
		if now.After(item.expiresAt) {
			delete(m.data, key)
		}
	}
}
