package assetstore

import (
	"path/filepath"

	"github.com/redis/go-redis/v9"
)

type IndexConfig struct {
	Backend string // "file" or "redis"
	Prefix  string
}

// NewIndex builds the configured index backend. dataDir is only used by the
// file backend; redisClient is only used by the redis backend.
func NewIndex(cfg IndexConfig, dataDir string, redisClient *redis.Client) (Index, error) {
	switch cfg.Backend {
	case "redis":
		return NewRedisIndex(redisClient, RedisConfig{Prefix: cfg.Prefix}), nil
	default:
		return NewFileIndex(filepath.Join(dataDir, "primitives.json"))
	}
}
