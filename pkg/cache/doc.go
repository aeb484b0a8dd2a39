// Package cache provides pluggable storage for rendered diagram artifacts.
//
// # Backends
//
//   - [NullCache]: stores nothing (--no-cache)
//   - [FileCache]: JSON files under the user cache directory (CLI default)
//   - [RedisCache]: shared cache for server replicas
//
// All backends implement [Cache]. Keys come from a [Keyer]; the default keyer
// hashes the definition content together with the render options, so a
// changed definition never hits a stale entry.
//
//	c, err := cache.NewFileCache(dir)
//	key := cache.NewDefaultKeyer().ArtifactKey(defHash, cache.ArtifactKeyOpts{Format: "svg"})
//	data, hit, err := c.Get(ctx, key)
package cache
