package mock

import (
	"context"
	"sync"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var (
	sharedRedis     *redis.Client
	sharedRedisOnce sync.Once
)

// NewRedis returns a client for a miniredis instance shared by the whole
// suite. The rate limiter and the status cache both talk to it.
func NewRedis() *redis.Client {
	sharedRedisOnce.Do(func() {
		srv, err := miniredis.Run()
		if err != nil {
			panic(err)
		}
		sharedRedis = redis.NewClient(&redis.Options{Addr: srv.Addr()})
	})
	return sharedRedis
}

// ClearRedis drops cached statuses and rate-limit counters between scenarios.
func ClearRedis(client *redis.Client) error {
	return client.FlushAll(context.Background()).Err()
}
