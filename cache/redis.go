package cache

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisCache is a Redis-backed translation store. Entries are stored as JSON
// under a key prefix with native Redis expiry, so TTL and eviction are
// delegated to the server. Hit/miss counters are process-local. Backend
// errors are logged and degrade to misses.
type RedisCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	log       logrus.FieldLogger

	mu     sync.Mutex
	hits   uint64
	misses uint64
}

// RedisConfig holds configuration for the Redis store.
type RedisConfig struct {
	URL       string             // Connection URL (e.g., "redis://localhost:6379")
	TTL       time.Duration      // Entry lifetime; <= 0 means no expiration
	KeyPrefix string             // Prefix for all keys (default: "lingo:")
	Logger    logrus.FieldLogger // Optional
}

const defaultKeyPrefix = "lingo:"

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, &Error{Message: "parsing redis url", Cause: err}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, &Error{Message: "connecting to redis", Cause: err}
	}

	return NewRedisCacheFromClient(client, cfg.TTL, cfg.KeyPrefix, cfg.Logger), nil
}

// NewRedisCacheFromClient wraps an existing Redis client.
func NewRedisCacheFromClient(client *redis.Client, ttl time.Duration, keyPrefix string, log logrus.FieldLogger) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	if ttl < 0 {
		ttl = 0
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &RedisCache{
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
		log:       log,
	}
}

// Get fetches the entry for the triple. Any backend error counts as a miss.
func (c *RedisCache) Get(text, sourceLang, targetLang string) (string, bool) {
	key := c.keyPrefix + Fingerprint(text, sourceLang, targetLang)

	val, err := c.client.Get(context.Background(), key).Result()
	if err == redis.Nil {
		c.count(false)
		return "", false
	}
	if err != nil {
		c.log.WithError(err).Debug("redis get failed, treating as miss")
		c.count(false)
		return "", false
	}

	var entry Entry
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		c.log.WithError(err).Debug("corrupt cache entry, treating as miss")
		c.count(false)
		return "", false
	}

	c.count(true)
	return entry.TranslatedText, true
}

// Set stores the entry under the triple's fingerprint with the configured
// TTL. Errors are logged and dropped.
func (c *RedisCache) Set(text, translatedText, sourceLang, targetLang, provider string) {
	key := c.keyPrefix + Fingerprint(text, sourceLang, targetLang)

	data, err := json.Marshal(Entry{
		SourceText:     text,
		TranslatedText: translatedText,
		SourceLang:     sourceLang,
		TargetLang:     targetLang,
		CreatedAt:      time.Now(),
		HitCount:       1,
		Provider:       provider,
	})
	if err != nil {
		c.log.WithError(err).Debug("encoding cache entry failed")
		return
	}

	if err := c.client.Set(context.Background(), key, string(data), c.ttl).Err(); err != nil {
		c.log.WithError(err).Debug("redis set failed")
	}
}

// Clear deletes every key under the prefix and resets the local counters.
func (c *RedisCache) Clear() {
	ctx := context.Background()

	keys, err := c.client.Keys(ctx, c.keyPrefix+"*").Result()
	if err != nil {
		c.log.WithError(err).Debug("redis keys scan failed")
	} else if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			c.log.WithError(err).Debug("redis del failed")
		}
	}

	c.mu.Lock()
	c.hits = 0
	c.misses = 0
	c.mu.Unlock()
}

// Stats reports the process-local counters plus the current key count under
// the prefix. MaxSize is 0: capacity is governed by the server's maxmemory
// policy, not by this client.
func (c *RedisCache) Stats() Stats {
	size := 0
	if keys, err := c.client.Keys(context.Background(), c.keyPrefix+"*").Result(); err == nil {
		size = len(keys)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var hitRate float64
	if total := c.hits + c.misses; total > 0 {
		hitRate = math.Round(float64(c.hits)/float64(total)*100*100) / 100
	}

	return Stats{
		Size:    size,
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: hitRate,
		TTL:     c.ttl,
	}
}

// CleanupExpired is a no-op: Redis expires entries natively.
func (c *RedisCache) CleanupExpired() int {
	return 0
}

// Ping tests the Redis connection.
func (c *RedisCache) Ping() error {
	return c.client.Ping(context.Background()).Err()
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) count(hit bool) {
	c.mu.Lock()
	if hit {
		c.hits++
	} else {
		c.misses++
	}
	c.mu.Unlock()
}

// Verify RedisCache implements TranslationCache
var _ TranslationCache = (*RedisCache)(nil)
