package config

import (
	"path/filepath"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/supplychain/pkg/cache"
)

// RedisClient returns a client for the configured Redis server.
func (c *Config) RedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	})
}

// OpenCache opens the configured cache backend. The caller closes it.
func (c *Config) OpenCache() (cache.Cache, error) {
	switch c.Cache.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheBadger:
		bc, err := cache.NewBadgerCache(filepath.Join(c.CacheDir(), "badger"))
		if err != nil {
			return nil, err
		}
		return bc, nil
	case CacheRedis:
		return cache.NewRedisCache(c.RedisClient(), c.Redis.Prefix+"cache:"), nil
	}
	fc, err := cache.NewFileCache(filepath.Join(c.CacheDir(), "layouts"))
	if err != nil {
		return nil, err
	}
	return fc, nil
}
