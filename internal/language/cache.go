// internal/language/cache.go
package language

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"agri-intelligence/internal/common/metrics"
)

// TranslationCache is a two-level cache for translation results keyed by
// (text, source, destination). L1 is an in-process LRU; L2 is Redis and is
// optional. A Redis outage degrades to L1 only.
type TranslationCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	entries  map[string]*list.Element

	redis *redis.Client
	ttl   time.Duration
}

type cacheEntry struct {
	key   string
	value string
}

// NewTranslationCache creates a cache with the given L1 capacity. redisClient
// may be nil to run without the shared layer.
func NewTranslationCache(capacity int, redisClient *redis.Client, ttl time.Duration) *TranslationCache {
	if capacity <= 0 {
		capacity = 2000
	}
	return &TranslationCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element, capacity),
		redis:    redisClient,
		ttl:      ttl,
	}
}

// Key derives the cache key from the translation triple. Text is hashed so
// long queries stay within key length limits.
func (c *TranslationCache) Key(text, src, dst string) string {
	sum := sha256.Sum256([]byte(text))
	return "translation:" + src + ":" + dst + ":" + hex.EncodeToString(sum[:16])
}

// Get returns the cached translation for the key, checking L1 then L2. L2
// hits are promoted into L1.
func (c *TranslationCache) Get(ctx context.Context, key string) (string, bool) {
	c.mu.Lock()
	if elem, ok := c.entries[key]; ok {
		c.order.MoveToFront(elem)
		value := elem.Value.(*cacheEntry).value
		c.mu.Unlock()
		metrics.TranslationCacheHits.WithLabelValues("l1", "hit").Inc()
		return value, true
	}
	c.mu.Unlock()
	metrics.TranslationCacheHits.WithLabelValues("l1", "miss").Inc()

	if c.redis == nil {
		return "", false
	}

	value, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		metrics.TranslationCacheHits.WithLabelValues("l2", "miss").Inc()
		return "", false
	}
	metrics.TranslationCacheHits.WithLabelValues("l2", "hit").Inc()

	c.storeL1(key, value)
	return value, true
}

// Set writes the translation into both levels. Redis write failures are
// ignored; the L1 entry still serves this process.
func (c *TranslationCache) Set(ctx context.Context, key, value string) {
	c.storeL1(key, value)

	if c.redis != nil {
		c.redis.Set(ctx, key, value, c.ttl)
	}
}

func (c *TranslationCache) storeL1(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		elem.Value.(*cacheEntry).value = value
		c.order.MoveToFront(elem)
		return
	}

	elem := c.order.PushFront(&cacheEntry{key: key, value: value})
	c.entries[key] = elem

	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).key)
		}
	}
}

// Len reports the number of L1 entries.
func (c *TranslationCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
