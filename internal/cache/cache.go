// Package cache provides a short-lived result cache so repeated checks
// for the same patient do not hit the clearinghouse twice.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// ErrMiss is returned when no cached result exists for a key.
var ErrMiss = fmt.Errorf("cache: miss")

// ResultCache stores serialized eligibility results in Redis.
type ResultCache struct {
	redis  *redis.Client
	tracer trace.Tracer
	ttl    time.Duration
}

// NewResultCache creates a result cache with the given TTL.
func NewResultCache(rdb *redis.Client, ttl time.Duration) *ResultCache {
	if rdb == nil {
		panic("cache: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ResultCache{
		redis:  rdb,
		tracer: otel.Tracer("carebridge.internal.cache"),
		ttl:    ttl,
	}
}

// Key derives a cache key from the payer code and every field of the
// inquiry. All fields must participate: under name-only-matching payers
// no identifier is present, and a key that skipped names would collide
// two patients sharing a birth date. The fields are hashed so member
// identifiers never appear in Redis keyspace listings.
func Key(payerCode string, fields ...string) string {
	sum := sha256.Sum256([]byte(payerCode + "|" + strings.Join(fields, "|")))
	return fmt.Sprintf("eligibility:%s", hex.EncodeToString(sum[:]))
}

// Get returns the cached payload for key, or ErrMiss. A nil cache
// always misses.
func (c *ResultCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil {
		return nil, ErrMiss
	}
	ctx, span := c.tracer.Start(ctx, "cache.get")
	defer span.End()

	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrMiss
		}
		span.RecordError(err)
		return nil, fmt.Errorf("cache: failed to load result: %w", err)
	}
	return data, nil
}

// Set stores payload under key for the cache TTL. A nil cache is a no-op.
func (c *ResultCache) Set(ctx context.Context, key string, payload []byte) error {
	if c == nil {
		return nil
	}
	ctx, span := c.tracer.Start(ctx, "cache.set")
	defer span.End()

	if err := c.redis.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("cache: failed to persist result: %w", err)
	}
	return nil
}
