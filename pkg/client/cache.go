package client

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Key joins query key parts with "/", e.g. Key("agremiados", 1, 50) is
// "agremiados/1/50".
func Key(parts ...interface{}) string {
	s := make([]string, len(parts))
	for i, p := range parts {
		s[i] = fmt.Sprint(p)
	}
	return strings.Join(s, "/")
}

type cacheEntry struct {
	value   interface{}
	expires time.Time
}

// QueryCache keeps query results for a fixed TTL. Concurrent fills of the
// same key share one fetch, and a fill that raced an invalidation is not
// stored.
type QueryCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
	gen     uint64

	group singleflight.Group
}

// NewQueryCache creates a cache. A ttl <= 0 disables storage; fetches are
// still de-duplicated.
func NewQueryCache(ttl time.Duration) *QueryCache {
	return &QueryCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns a live entry.
func (q *QueryCache) Get(key string) (interface{}, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	e, ok := q.entries[key]
	if !ok {
		return nil, false
	}
	if !q.now().Before(e.expires) {
		delete(q.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key.
func (q *QueryCache) Set(key string, value interface{}) {
	if q.ttl <= 0 {
		return
	}
	q.mu.Lock()
	q.entries[key] = cacheEntry{value: value, expires: q.now().Add(q.ttl)}
	q.mu.Unlock()
}

// Fetch returns the cached value for key or calls fn to fill it.
func (q *QueryCache) Fetch(ctx context.Context, key string, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	if v, ok := q.Get(key); ok {
		return v, nil
	}

	q.mu.Lock()
	gen := q.gen
	q.mu.Unlock()

	v, err, _ := q.group.Do(key, func() (interface{}, error) {
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		q.mu.Lock()
		if q.gen == gen && q.ttl > 0 {
			q.entries[key] = cacheEntry{value: v, expires: q.now().Add(q.ttl)}
		}
		q.mu.Unlock()
		return v, nil
	})
	return v, err
}

// Invalidate drops exactly key.
func (q *QueryCache) Invalidate(key string) {
	q.mu.Lock()
	delete(q.entries, key)
	q.gen++
	q.mu.Unlock()
}

// InvalidatePrefix drops every key whose leading segments equal prefix, so
// InvalidatePrefix("agremiados") clears "agremiados/1/50" and
// "agremiados/search/x/1" but not "agremiado/3".
func (q *QueryCache) InvalidatePrefix(prefix string) {
	q.mu.Lock()
	for k := range q.entries {
		if k == prefix || strings.HasPrefix(k, prefix+"/") {
			delete(q.entries, k)
		}
	}
	q.gen++
	q.mu.Unlock()
}

// Len number of stored entries, expired ones included.
func (q *QueryCache) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}
