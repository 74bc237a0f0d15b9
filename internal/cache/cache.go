package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"log"

	"github.com/redis/go-redis/v9"
)

const productKeyPrefix = "products:"

// Connect returns a Redis client, or nil when no address is configured or the
// server is unreachable. A nil client disables the product cache; everything
// else keeps working.
func Connect(addr string) *redis.Client {
	if addr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Printf("[Cache] redis unavailable at %s, product cache disabled: %v", addr, err)
		return nil
	}
	return rdb
}

// ProductKey derives a stable cache key from the full request URL.
func ProductKey(url string) string {
	sum := sha1.Sum([]byte(url))
	return productKeyPrefix + hex.EncodeToString(sum[:])
}

// InvalidateProducts drops every cached product response. Called after any
// catalog mutation; keys are hashed so a pattern scan is the only option.
func InvalidateProducts(ctx context.Context, rdb *redis.Client) {
	if rdb == nil {
		return
	}

	iter := rdb.Scan(ctx, 0, productKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := rdb.Del(ctx, iter.Val()).Err(); err != nil {
			log.Printf("[Cache] failed to drop %s: %v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("[Cache] invalidation scan failed: %v", err)
	}
}
