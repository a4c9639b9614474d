package localstore

import (
	"context"
	"time"

	"github.com/angelmondragon/gs-storefront/pkg/redis"
)

type redisKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	LocalStoreKey(profile, key string) string
}

var _ redisKV = (*redis.Client)(nil)

// RedisBackend stores values under gs:local:<profile>:<key> without expiry, letting a
// profile follow the user across machines sharing one redis.
type RedisBackend struct {
	client  redisKV
	profile string
}

func NewRedisBackend(client redisKV, profile string) *RedisBackend {
	return &RedisBackend{client: client, profile: profile}
}

func (r *RedisBackend) Load(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, r.client.LocalStoreKey(r.profile, key))
	if err != nil {
		if redis.IsNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(value), true, nil
}

func (r *RedisBackend) Store(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.client.LocalStoreKey(r.profile, key), string(value), 0)
}
