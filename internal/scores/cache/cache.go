// Package cache stores rendered statistics reports in Redis so repeated
// dashboard reads skip the snapshot scan.
package cache

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strconv"
	"time"

	"score_portal_backend/platform/config"
	"score_portal_backend/platform/logger"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

// KeyPrefix namespaces every statistics key.
const KeyPrefix = "scores:stats:"

// GenerationKey holds the invalidation counter. It sits outside KeyPrefix so
// InvalidateAll never deletes it.
const GenerationKey = "scores:stats-generation"

// Report keys.
const (
	KeySummary        = "summary"
	KeyLeadConversion = "lead-conversion"
	KeyProperty       = "property"
)

// Cache is the statistics cache used by the scores service.
//
// Writers read Generation before loading the data a report is built from and
// pass it to SetIfGeneration. InvalidateAll bumps the generation first, so a
// report computed before an invalidation is never stored after it.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Generation(ctx context.Context) (uint64, error)
	SetIfGeneration(ctx context.Context, key string, value []byte, generation uint64) (bool, error)
	InvalidateAll(ctx context.Context) error
}

// setIfGeneration stores ARGV[2] under KEYS[2] only while KEYS[1] still holds
// ARGV[1]. ARGV[3] is the TTL in milliseconds; 0 keeps the entry forever.
var setIfGeneration = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if not current then
	current = '0'
end
if current ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

// NewClient opens a Redis client from the configured URL.
func NewClient(cfg config.CacheConfig) (*redis.Client, error) {
	if cfg.GetRedisURL() == "" {
		return nil, fmt.Errorf("redis url not configured")
	}
	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if cfg.GetRedisTLSInsecure() {
		if opt.TLSConfig == nil {
			opt.TLSConfig = &tls.Config{}
		}
		opt.TLSConfig.InsecureSkipVerify = true
	}
	return redis.NewClient(opt), nil
}

// BreakerSettings tunes the circuit breaker guarding Redis calls.
type BreakerSettings struct {
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// DefaultBreakerSettings trips after five consecutive failures and probes again after 30s.
var DefaultBreakerSettings = BreakerSettings{FailureThreshold: 5, OpenTimeout: 30 * time.Second}

// RedisCache is a Cache backed by Redis. Every call goes through a circuit breaker.
type RedisCache struct {
	client  redis.UniversalClient
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker[[]byte]
	log     *logger.Logger
}

// NewRedisCache wraps client with the given entry TTL.
func NewRedisCache(client redis.UniversalClient, ttl time.Duration, settings BreakerSettings, log *logger.Logger) *RedisCache {
	if log == nil {
		log = logger.Discard()
	}
	c := &RedisCache{client: client, ttl: ttl, log: log}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "statistics-cache",
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return c
}

// Get returns the cached value for key. A miss is reported as ok=false with a nil error.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.breaker.Execute(func() ([]byte, error) {
		return c.client.Get(ctx, KeyPrefix+key).Bytes()
	})
	switch {
	case errors.Is(err, redis.Nil):
		return nil, false, nil
	case err != nil:
		c.log.CacheError("get "+key, err)
		return nil, false, err
	}
	return value, true, nil
}

// Generation returns the current invalidation counter. A missing counter reads as 0.
func (c *RedisCache) Generation(ctx context.Context) (uint64, error) {
	var generation uint64
	_, err := c.breaker.Execute(func() ([]byte, error) {
		value, err := c.client.Get(ctx, GenerationKey).Uint64()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		generation = value
		return nil, err
	})
	if err != nil {
		c.log.CacheError("generation", err)
		return 0, err
	}
	return generation, nil
}

// SetIfGeneration stores value under key unless the cache was invalidated
// since generation was read. It reports whether the value was stored.
func (c *RedisCache) SetIfGeneration(ctx context.Context, key string, value []byte, generation uint64) (bool, error) {
	var stored bool
	_, err := c.breaker.Execute(func() ([]byte, error) {
		n, err := setIfGeneration.Run(ctx, c.client,
			[]string{GenerationKey, KeyPrefix + key},
			strconv.FormatUint(generation, 10), value, c.ttl.Milliseconds(),
		).Int()
		stored = n == 1
		return nil, err
	})
	if err != nil {
		c.log.CacheError("set "+key, err)
		return false, err
	}
	return stored, nil
}

// InvalidateAll bumps the generation and drops every statistics key.
func (c *RedisCache) InvalidateAll(ctx context.Context) error {
	_, err := c.breaker.Execute(func() ([]byte, error) {
		if err := c.client.Incr(ctx, GenerationKey).Err(); err != nil {
			return nil, err
		}
		var cursor uint64
		for {
			keys, next, err := c.client.Scan(ctx, cursor, KeyPrefix+"*", 100).Result()
			if err != nil {
				return nil, err
			}
			if len(keys) > 0 {
				if err := c.client.Del(ctx, keys...).Err(); err != nil {
					return nil, err
				}
			}
			if next == 0 {
				return nil, nil
			}
			cursor = next
		}
	})
	if err != nil {
		c.log.CacheError("invalidate", err)
	}
	return err
}

// Noop is a Cache that never stores anything. Used when Redis is not configured.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error)  { return nil, false, nil }
func (Noop) Generation(context.Context) (uint64, error)         { return 0, nil }
func (Noop) InvalidateAll(context.Context) error                { return nil }
func (Noop) SetIfGeneration(context.Context, string, []byte, uint64) (bool, error) {
	return false, nil
}

var (
	_ Cache = (*RedisCache)(nil)
	_ Cache = Noop{}
)
