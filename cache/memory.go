package cache

import (
	"container/list"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultMaxSize bounds the store when Options.MaxSize is unset.
const DefaultMaxSize = 1000

// Options configures a MemoryCache.
type Options struct {
	MaxSize  int                // Maximum entry count (default DefaultMaxSize)
	TTL      time.Duration      // Absolute entry lifetime; <= 0 means never expire
	Disabled bool               // When set, Get and Set are no-ops
	Logger   logrus.FieldLogger // Optional; defaults to the standard logger
}

// item is what the recency list holds: the fingerprint key plus the entry,
// so eviction from the list tail can also delete from the map.
type item struct {
	key   string
	entry *Entry
}

// MemoryCache is a thread-safe in-memory LRU store with absolute TTL expiry.
//
// Two expiry mechanisms compose: capacity eviction drops the single least
// recently used entry when an insert would exceed MaxSize, even if that entry
// is not expired; TTL expiry treats entries older than TTL as gone on any
// Get, regardless of recency. Expired entries are removed lazily, the moment
// a Get or CleanupExpired finds them, so they count toward Size until then.
//
// One mutex covers the map, the recency list, and the hit/miss counters, so
// stats can never disagree with the entries they describe.
type MemoryCache struct {
	mu       sync.Mutex
	maxSize  int
	ttl      time.Duration
	disabled bool
	ll       *list.List // Front is most recently used
	items    map[string]*list.Element
	hits     uint64
	misses   uint64
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewMemoryCache creates a memory store with the given options.
func NewMemoryCache(opts Options) *MemoryCache {
	maxSize := opts.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	c := &MemoryCache{
		maxSize:  maxSize,
		ttl:      opts.TTL,
		disabled: opts.Disabled,
		ll:       list.New(),
		items:    make(map[string]*list.Element),
		log:      log,
		now:      time.Now,
	}

	log.WithFields(logrus.Fields{
		"max_size": maxSize,
		"ttl":      opts.TTL,
		"disabled": opts.Disabled,
	}).Info("translation cache initialized")

	return c
}

// Get returns the cached translation for the triple, refreshing its recency
// and hit count. A disabled store always misses without touching counters.
// Finding an expired entry removes it and counts as a miss.
func (c *MemoryCache) Get(text, sourceLang, targetLang string) (string, bool) {
	if c.disabled {
		return "", false
	}

	key := Fingerprint(text, sourceLang, targetLang)

	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.misses++
		c.log.WithField("key", shortKey(key)).Debug("cache miss")
		return "", false
	}

	it := el.Value.(*item)
	if it.entry.Expired(c.ttl, c.now()) {
		c.ll.Remove(el)
		delete(c.items, key)
		c.misses++
		c.log.WithField("key", shortKey(key)).Debug("cache entry expired")
		return "", false
	}

	c.ll.MoveToFront(el)
	it.entry.HitCount++
	c.hits++
	c.log.WithFields(logrus.Fields{
		"key":  shortKey(key),
		"hits": it.entry.HitCount,
	}).Debug("cache hit")

	return it.entry.TranslatedText, true
}

// Set inserts or overwrites the entry for the triple at the most recently
// used position, with HitCount reset to 1 and CreatedAt set to now. When a
// new key would exceed capacity, the least recently used entry is evicted
// first. No-op on a disabled store.
func (c *MemoryCache) Set(text, translatedText, sourceLang, targetLang, provider string) {
	if c.disabled {
		return
	}

	key := Fingerprint(text, sourceLang, targetLang)
	entry := &Entry{
		SourceText:     text,
		TranslatedText: translatedText,
		SourceLang:     sourceLang,
		TargetLang:     targetLang,
		CreatedAt:      c.now(),
		HitCount:       1,
		Provider:       provider,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*item).entry = entry
		c.ll.MoveToFront(el)
		return
	}

	if c.ll.Len() >= c.maxSize {
		if back := c.ll.Back(); back != nil {
			evicted := back.Value.(*item)
			c.ll.Remove(back)
			delete(c.items, evicted.key)
			c.log.WithField("key", shortKey(evicted.key)).Debug("cache eviction (LRU)")
		}
	}

	c.items[key] = c.ll.PushFront(&item{key: key, entry: entry})
	c.log.WithFields(logrus.Fields{
		"key":  shortKey(key),
		"size": c.ll.Len(),
	}).Debug("cache set")
}

// Clear removes all entries and resets the hit/miss counters.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ll = list.New()
	c.items = make(map[string]*list.Element)
	c.hits = 0
	c.misses = 0
	c.log.Info("cache cleared")
}

// Size returns the number of stored entries, counting expired entries that
// no Get or CleanupExpired has touched yet.
func (c *MemoryCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Stats returns a snapshot of the store counters.
func (c *MemoryCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	var hitRate float64
	if total := c.hits + c.misses; total > 0 {
		hitRate = math.Round(float64(c.hits)/float64(total)*100*100) / 100
	}

	return Stats{
		Size:    c.ll.Len(),
		MaxSize: c.maxSize,
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: hitRate,
		TTL:     c.ttl,
	}
}

// CleanupExpired eagerly removes every expired entry and returns how many it
// removed. Hit/miss counters are unaffected.
func (c *MemoryCache) CleanupExpired() int {
	if c.disabled {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0

	var next *list.Element
	for el := c.ll.Front(); el != nil; el = next {
		next = el.Next()
		it := el.Value.(*item)
		if it.entry.Expired(c.ttl, now) {
			c.ll.Remove(el)
			delete(c.items, it.key)
			removed++
		}
	}

	if removed > 0 {
		c.log.WithField("removed", removed).Info("cleaned up expired cache entries")
	}

	return removed
}

// Entries returns copies of all entries in most-recently-used order. For
// diagnostics; callers never receive references into the store.
func (c *MemoryCache) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]Entry, 0, c.ll.Len())
	for el := c.ll.Front(); el != nil; el = el.Next() {
		entries = append(entries, *el.Value.(*item).entry)
	}
	return entries
}

func shortKey(key string) string {
	if len(key) > 16 {
		return key[:16]
	}
	return key
}

// Verify MemoryCache implements TranslationCache
var _ TranslationCache = (*MemoryCache)(nil)
