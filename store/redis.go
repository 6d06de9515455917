package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rushteam/innermatch/core"
)

// RedisStore 是 Redis 实现的 ModelStore。
// 生产环境常用，支持持久化、集群、哨兵等。
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore 创建 RedisStore。prefix 用于隔离命名空间（如 "innermatch:model:"）。
func NewRedisStore(addr string, db int, prefix string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (r *RedisStore) Name() string { return "redis" }

func (r *RedisStore) key(k string) string { return r.prefix + k }

func (r *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(key)).Result()
	if err != nil {
		return false, core.NewDomainError(core.ModuleStore, core.ErrorCodeStorageFailure,
			fmt.Sprintf("store: redis exists %s: %v", key, err))
	}
	return n > 0, nil
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err == redis.Nil {
		return nil, core.ErrStoreNotFound
	}
	if err != nil {
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeStorageFailure,
			fmt.Sprintf("store: redis get %s: %v", key, err))
	}
	return val, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeStorageFailure,
			fmt.Sprintf("store: redis set %s: %v", key, err))
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeStorageFailure,
			fmt.Sprintf("store: redis del %s: %v", key, err))
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

var _ core.ModelStore = (*RedisStore)(nil)
