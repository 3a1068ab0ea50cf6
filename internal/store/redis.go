package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// sessionTTL bounds how long an idle device session lives in Redis.  A dine-in
// visit is hours at most; a day leaves plenty of slack for a phone that went
// to sleep mid-meal.
const sessionTTL = 24 * time.Hour

// Redis keeps each device session in one hash.  Every write refreshes the
// hash TTL so active sessions never expire mid-visit.
type Redis struct {
	rdb    *redis.Client
	prefix string
}

// NewRedis wraps an already connected client.  prefix namespaces the hashes
// when the instance is shared.
func NewRedis(rdb *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "session"
	}
	return &Redis{rdb: rdb, prefix: prefix}
}

func (r *Redis) hashKey(deviceID string) string { return r.prefix + ":" + deviceID }

func (r *Redis) Get(ctx context.Context, deviceID, key string) (string, error) {
	v, err := r.rdb.HGet(ctx, r.hashKey(deviceID), key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return v, err
}

func (r *Redis) Set(ctx context.Context, deviceID, key, value string) error {
	hk := r.hashKey(deviceID)
	if err := r.rdb.HSet(ctx, hk, key, value).Err(); err != nil {
		return err
	}
	return r.rdb.Expire(ctx, hk, sessionTTL).Err()
}

func (r *Redis) Clear(ctx context.Context, deviceID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.rdb.HDel(ctx, r.hashKey(deviceID), keys...).Err()
}
