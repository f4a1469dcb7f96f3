package assetstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisIndex implements Index on Redis, for deployments where several
// instances share one asset directory. Entries are written without TTL:
// the index is durable state, not a cache with expiry.
type RedisIndex struct {
	client *redis.Client
	prefix string
}

type RedisConfig struct {
	Prefix string
}

func NewRedisIndex(client *redis.Client, cfg RedisConfig) *RedisIndex {
	return &RedisIndex{
		client: client,
		prefix: cfg.Prefix,
	}
}

func (i *RedisIndex) key(k string) string {
	if i.prefix == "" {
		return k
	}
	return i.prefix + ":" + k
}

func (i *RedisIndex) Get(ctx context.Context, key string) (Record, bool, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, false, fmt.Errorf("context error: %w", err)
	}

	data, err := i.client.Get(ctx, i.key(key)).Bytes()
	if err == redis.Nil {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("redis get failed: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, false, fmt.Errorf("redis entry corrupt: %w", err)
	}
	return rec, true, nil
}

func (i *RedisIndex) Put(ctx context.Context, key string, rec Record) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := i.client.Set(ctx, i.key(key), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (i *RedisIndex) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	return i.client.Ping(ctx).Err()
}
