// Package rediscache backs the order-creation idempotency store with Redis.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "order:idem:"

type IdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewIdempotencyStore(rdb *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (int64, bool, error) {
	val, err := s.rdb.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("rediscache: get: %w", err)
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("rediscache: parse order id %q: %w", val, err)
	}
	return id, true, nil
}

func (s *IdempotencyStore) Put(ctx context.Context, key string, orderID int64) error {
	if err := s.rdb.SetNX(ctx, keyPrefix+key, strconv.FormatInt(orderID, 10), s.ttl).Err(); err != nil {
		return fmt.Errorf("rediscache: setnx: %w", err)
	}
	return nil
}
