package insight

import (
	"strings"
	"sync"
	"time"

	"github.com/oshpulse/atlas/internal/domain"
	"github.com/oshpulse/atlas/pkg/logger"
)

// Cache is a capacity-bounded in-memory cache for completed insights.
// ⭐ SSOT: in-process insight caching lives only here; Redis carries
// the cross-instance layer. When full, the entry with the oldest
// generation timestamp is evicted first.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]*domain.Insight
	capacity int
	logger   *logger.Logger

	hits      int64
	misses    int64
	evictions int64
}

// NewCache creates a bounded insight cache.
func NewCache(capacity int, log *logger.Logger) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache{
		entries:  make(map[string]*domain.Insight),
		capacity: capacity,
		logger:   log,
	}
}

func cacheKey(iso string, category domain.Category) string {
	return iso + ":" + string(category)
}

// Get retrieves a cached insight.
func (c *Cache) Get(iso string, category domain.Category) (*domain.Insight, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ins, ok := c.entries[cacheKey(iso, category)]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	return ins, true
}

// Put stores an insight, evicting the stalest entry when the cache is
// at capacity.
func (c *Cache) Put(ins *domain.Insight) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(ins.ISOCode, ins.Category)
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		c.evictStalest()
	}
	c.entries[key] = ins
}

// evictStalest removes the entry with the oldest generation timestamp.
// Caller holds the lock.
func (c *Cache) evictStalest() {
	var (
		stalestKey string
		stalestAt  time.Time
		first      = true
	)
	for key, ins := range c.entries {
		var at time.Time
		if ins.GeneratedAt != nil {
			at = *ins.GeneratedAt
		}
		if first || at.Before(stalestAt) {
			first = false
			stalestKey = key
			stalestAt = at
		}
	}
	if stalestKey != "" {
		delete(c.entries, stalestKey)
		c.evictions++
	}
}

// Invalidate drops one (country, category) entry.
func (c *Cache) Invalidate(iso string, category domain.Category) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, cacheKey(iso, category))
}

// InvalidateCountry drops every entry for one country and returns how
// many were removed.
func (c *Cache) InvalidateCountry(iso string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := iso + ":"
	count := 0
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			count++
		}
	}
	return count
}

// CleanStale removes entries whose generation timestamp predates the
// cutoff and returns how many were removed.
func (c *Cache) CleanStale(cutoff time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for key, ins := range c.entries {
		if ins.GeneratedAt == nil || ins.GeneratedAt.Before(cutoff) {
			delete(c.entries, key)
			count++
		}
	}

	if count > 0 {
		c.logger.WithField("count", count).Info("Cleaned stale insights from cache")
	}
	return count
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*domain.Insight)
	c.logger.Info("Cleared insight cache")
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Stats returns cache statistics.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{
		Size:      len(c.entries),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

// CacheStats represents cache statistics.
type CacheStats struct {
	Size      int   `json:"size"`
	Capacity  int   `json:"capacity"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}
