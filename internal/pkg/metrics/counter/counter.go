package counter

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	guardDenialsKey = "entitlements:counters:denials"
	fallbacksKey    = "entitlements:counters:fallbacks"

	opTimeout = 500 * time.Millisecond
)

// client is nil until Enable is called; every counter is a no-op until then.
var client *redis.Client

// Enable starts recording into the given Redis client.
func Enable(c *redis.Client) {
	client = c
}

func Disable() {
	client = nil
}

func Enabled() bool {
	return client != nil
}

// AddGuardDenial increments the denial counter of a guard
func AddGuardDenial(guard string) error {
	return incr(guardDenialsKey, guard)
}

// AddFallback increments the counter of a session fallback reason
func AddFallback(reason string) error {
	return incr(fallbacksKey, reason)
}

func incr(key, field string) error {
	c := client
	if c == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return c.HIncrBy(ctx, key, field, 1).Err()
}

// Stats is a snapshot of all counters.
type Stats struct {
	Enabled   bool             `json:"enabled"`
	Denials   map[string]int64 `json:"denials"`
	Fallbacks map[string]int64 `json:"fallbacks"`
}

// Snapshot reads all counters.
func Snapshot() (Stats, error) {
	stats := Stats{
		Enabled:   Enabled(),
		Denials:   map[string]int64{},
		Fallbacks: map[string]int64{},
	}
	c := client
	if c == nil {
		return stats, nil
	}

	if err := readHash(c, guardDenialsKey, stats.Denials); err != nil {
		return stats, err
	}
	if err := readHash(c, fallbacksKey, stats.Fallbacks); err != nil {
		return stats, err
	}
	return stats, nil
}

func readHash(c *redis.Client, key string, into map[string]int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	fields, err := c.HGetAll(ctx, key).Result()
	if err != nil {
		return err
	}
	for field, raw := range fields {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		into[field] = n
	}
	return nil
}

// Reset deletes all counters.
func Reset() error {
	c := client
	if c == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return c.Del(ctx, guardDenialsKey, fallbacksKey).Err()
}
