package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

const (
	redisLockTTL     = 10 * time.Second
	redisLockBackoff = 50 * time.Millisecond
	redisLockRetries = 100
)

// RedisKV stores fallback values in Redis; Lock is a redislock lease so
// several service instances can share one list.
type RedisKV struct {
	c      *redis.Client
	locker *redislock.Client
}

func NewRedisKV(c *redis.Client, locker *redislock.Client) *RedisKV {
	if locker == nil {
		locker = redislock.New(c)
	}
	return &RedisKV{c: c, locker: locker}
}

func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.c.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, err
	}
	return val, nil
}

func (r *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	return r.c.Set(ctx, key, value, 0).Err()
}

func (r *RedisKV) Lock(ctx context.Context, key string) (func(), error) {
	lock, err := r.locker.Obtain(ctx, "lock:"+key, redisLockTTL, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(redisLockBackoff), redisLockRetries),
	})
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return nil, fmt.Errorf("lock %s: busy", key)
		}
		return nil, fmt.Errorf("lock %s: %w", key, err)
	}
	return func() {
		_ = lock.Release(context.Background())
	}, nil
}
