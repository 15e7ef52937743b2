package cancellationregistry

import (
	e "apptreminder/internal/core/domain/errors"
	"apptreminder/internal/core/domain/reminder"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v9"
)

// Grace keeps a cancellation mark around after the fire time, delayed
// deliveries may arrive late.
const Grace = time.Hour

type Redis struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedis(client *redis.Client, prefix string, now func() time.Time) *Redis {
	if client == nil {
		panic(e.NewNilArgumentError("client"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &Redis{client: client, prefix: prefix, now: now}
}

func (r *Redis) MarkCanceled(ctx context.Context, handle reminder.NotificationHandle, until time.Time) error {
	ttl := until.Add(Grace).Sub(r.now())
	if ttl < Grace {
		ttl = Grace
	}
	return r.client.Set(ctx, r.canceledKey(handle), 1, ttl).Err()
}

func (r *Redis) IsCanceled(ctx context.Context, handle reminder.NotificationHandle) (bool, error) {
	n, err := r.client.Exists(ctx, r.canceledKey(handle)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Redis) Generation(ctx context.Context) (int64, error) {
	raw, err := r.client.Get(ctx, r.generationKey()).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (r *Redis) NextGeneration(ctx context.Context) (int64, error) {
	return r.client.Incr(ctx, r.generationKey()).Result()
}

func (r *Redis) canceledKey(handle reminder.NotificationHandle) string {
	return fmt.Sprintf("%scanceled:%s", r.prefix, handle)
}

func (r *Redis) generationKey() string {
	return r.prefix + "generation"
}
