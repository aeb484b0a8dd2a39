package config

import (
	"context"

	"github.com/matzehuels/classdiagram/pkg/cache"
	"github.com/matzehuels/classdiagram/pkg/store"
)

// OpenCache constructs the configured cache backend. The file backend
// falls back to DefaultCacheDir when cache.dir is empty.
func (c Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
			Prefix:   AppName + ":",
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		dir := c.Cache.Dir
		if dir == "" {
			d, err := DefaultCacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	}
}

// OpenStore constructs the configured document store.
func (c Config) OpenStore(ctx context.Context) (store.Store, error) {
	if c.Store.Backend == StoreMongo {
		ms, err := store.NewMongoStore(ctx, store.MongoOptions{
			URI:        c.Store.MongoURI,
			Database:   c.Store.Database,
			Collection: c.Store.Collection,
		})
		if err != nil {
			return nil, err
		}
		return ms, nil
	}
	return store.NewMemoryStore(), nil
}
