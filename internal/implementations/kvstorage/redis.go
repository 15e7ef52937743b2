package kvstorage

import (
	e "apptreminder/internal/core/domain/errors"
	"context"
	"errors"

	"github.com/go-redis/redis/v9"
)

type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis stores every key under prefix so one Redis database can be shared
// with the cancellation registry.
func NewRedis(client *redis.Client, prefix string) *Redis {
	if client == nil {
		panic(e.NewNilArgumentError("client"))
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value string) error {
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}
