package llm

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"
	"time"
)

type cacheEntry struct {
	expiry   time.Time
	response Response
}

// responseCache is a TTL cache of text-only responses.
type responseCache struct {
	entries map[string]cacheEntry
	now     func() time.Time
	stopCh  chan struct{}
	ttl     time.Duration
	mu      sync.RWMutex
	once    sync.Once
}

func newResponseCache(ttl time.Duration) *responseCache {
	if ttl == 0 {
		ttl = 15 * time.Minute
	}

	cache := &responseCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
	go cache.cleanup(5 * time.Minute)
	return cache
}

// cacheKey identifies a request by everything that shapes its answer.
func cacheKey(r Request) string {
	h := sha256.New()
	for _, part := range []string{
		r.System,
		r.Prompt,
		strconv.FormatBool(r.JSON),
		strconv.FormatFloat(r.Temperature, 'f', -1, 64),
		strconv.Itoa(r.MaxTokens),
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (c *responseCache) get(key string) (Response, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || c.now().After(entry.expiry) {
		return Response{}, false
	}
	return entry.response, true
}

func (c *responseCache) set(key string, resp Response) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{response: resp, expiry: c.now().Add(c.ttl)}
}

func (c *responseCache) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiry) {
			delete(c.entries, key)
		}
	}
}

func (c *responseCache) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *responseCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the cleanup goroutine.
func (c *responseCache) Close() {
	c.once.Do(func() { close(c.stopCh) })
}
