// internal/match/rerankcache/cache.go

// Package rerankcache maps a (profile, candidate-set) fingerprint to a
// previously computed ranking in Redis. A backend failure is always
// treated as a miss; the serving path never depends on the cache.
package rerankcache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"scholarmatch/internal/common/logger"
	"scholarmatch/internal/common/metrics"
	"scholarmatch/internal/models"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "rerank:fp:"

// Entry is the stored value. ExpiresAt is authoritative: a physically
// present entry past ExpiresAt is logically dead and served as a miss
// regardless of Redis key TTL timing.
type Entry struct {
	Results   []models.ScoredScholarship `json:"results"`
	CreatedAt time.Time                  `json:"createdAt"`
	ExpiresAt time.Time                  `json:"expiresAt"`
}

type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
	now    func() time.Time
}

func New(client *redis.Client, ttl time.Duration, log logger.Logger) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "rerankCache"}),
		now:    time.Now,
	}
}

// Get looks up a cached ranking. The boolean is false on miss, expiry,
// backend failure, or a corrupt entry.
func (c *Cache) Get(ctx context.Context, fingerprint string) ([]models.ScoredScholarship, bool) {
	val, err := c.client.Get(ctx, keyPrefix+fingerprint).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheLookups.WithLabelValues("miss").Inc()
		} else {
			metrics.CacheLookups.WithLabelValues("error").Inc()
			c.logger.Warn("cache lookup failed, treating as miss", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("corrupt cache entry, dropping", map[string]interface{}{
			"fingerprint": fingerprint,
		})
		c.client.Del(ctx, keyPrefix+fingerprint)
		return nil, false
	}

	if c.now().After(entry.ExpiresAt) {
		metrics.CacheLookups.WithLabelValues("expired").Inc()
		c.client.Del(ctx, keyPrefix+fingerprint)
		return nil, false
	}

	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return entry.Results, true
}

// Set stores a ranking under the fingerprint. Last write wins;
// concurrent duplicate computation for the same fingerprint is fine
// because identical inputs produce idempotent results. Write failures
// are logged and swallowed.
func (c *Cache) Set(ctx context.Context, fingerprint string, results []models.ScoredScholarship) {
	now := c.now()
	entry := Entry{
		Results:   results,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		c.logger.Error("failed to marshal cache entry", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if err := c.client.Set(ctx, keyPrefix+fingerprint, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{
			"fingerprint": fingerprint,
			"error":       err.Error(),
		})
	}
}

// Sweep scans up to batch keys and deletes the logically expired ones.
// Redis TTLs remove most entries on their own; the sweep catches
// entries whose logical expiry and key TTL drifted apart. Errors stop
// the sweep but never the serving path.
func (c *Cache) Sweep(ctx context.Context, batch int) (int, error) {
	if batch <= 0 {
		return 0, nil
	}

	removed := 0
	examined := 0
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", int64(batch)).Iterator()

	for iter.Next(ctx) {
		if examined >= batch {
			break
		}
		examined++

		key := iter.Val()
		val, err := c.client.Get(ctx, key).Result()
		if err != nil {
			continue
		}

		var entry Entry
		if err := json.Unmarshal([]byte(val), &entry); err != nil {
			c.client.Del(ctx, key)
			removed++
			continue
		}

		if c.now().After(entry.ExpiresAt) {
			if err := c.client.Del(ctx, key).Err(); err == nil {
				removed++
			}
		}
	}

	if removed > 0 {
		metrics.CacheSweepRemoved.Add(float64(removed))
	}

	if err := iter.Err(); err != nil {
		return removed, err
	}
	return removed, nil
}
