// Package config loads classdiagram settings from a TOML file and the
// environment.
//
// Precedence, lowest to highest: built-in defaults, the config file,
// CLASSDIAGRAM_* environment variables, command-line flags (applied by the
// caller).
//
// Example config.toml:
//
//	[server]
//	addr = ":8080"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/classdiagram/pkg/cache"
	errs "github.com/matzehuels/classdiagram/pkg/errors"
	"github.com/matzehuels/classdiagram/pkg/render"
	"github.com/matzehuels/classdiagram/pkg/store"
)

// AppName names the config and cache directories.
const AppName = "classdiagram"

// envPrefix prefixes every environment override.
const envPrefix = "CLASSDIAGRAM_"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Config is the complete application configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Render RenderConfig `toml:"render"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string `toml:"addr"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
	MaxBodyBytes    int64  `toml:"max_body_bytes"`
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	TTL           string `toml:"ttl"`
}

// StoreConfig selects and configures the diagram document store.
type StoreConfig struct {
	Backend    string `toml:"backend"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// RenderConfig holds rendering defaults.
type RenderConfig struct {
	Container string `toml:"container"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: "10s",
			MaxBodyBytes:    1 << 20,
		},
		Cache: CacheConfig{
			Backend:   CacheFile,
			RedisAddr: "localhost:6379",
			TTL:       cache.TTLArtifact.String(),
		},
		Store: StoreConfig{
			Backend:    StoreMemory,
			MongoURI:   "mongodb://localhost:27017",
			Database:   store.DefaultMongoDatabase,
			Collection: store.DefaultMongoCollection,
		},
		Render: RenderConfig{
			Container: render.ContainerRaw,
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path tries DefaultPath and silently skips it when missing;
// an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		switch {
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		case errors.Is(err, fs.ErrNotExist):
			return Config{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "config file not found: %s", path)
		case err != nil:
			return Config{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "parse config %s", path)
		default:
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				return Config{}, errs.New(errs.ErrCodeInvalidInput, "unknown config key %q in %s", undecoded[0].String(), path)
			}
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/classdiagram/config.toml, falling
// back to ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// DefaultCacheDir returns $XDG_CACHE_HOME/classdiagram, falling back to
// ~/.cache.
func DefaultCacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// applyEnv overlays CLASSDIAGRAM_* variables. lookup is os.LookupEnv
// outside tests.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"SERVER_ADDR":             &c.Server.Addr,
		"SERVER_SHUTDOWN_TIMEOUT": &c.Server.ShutdownTimeout,
		"CACHE_BACKEND":           &c.Cache.Backend,
		"CACHE_DIR":               &c.Cache.Dir,
		"CACHE_REDIS_ADDR":        &c.Cache.RedisAddr,
		"CACHE_REDIS_PASSWORD":    &c.Cache.RedisPassword,
		"CACHE_TTL":               &c.Cache.TTL,
		"STORE_BACKEND":           &c.Store.Backend,
		"STORE_MONGO_URI":         &c.Store.MongoURI,
		"STORE_DATABASE":          &c.Store.Database,
		"STORE_COLLECTION":        &c.Store.Collection,
		"RENDER_CONTAINER":        &c.Render.Container,
	}
	for key, dst := range strs {
		if v, ok := lookup(envPrefix + key); ok {
			*dst = v
		}
	}

	if v, ok := lookup(envPrefix + "CACHE_REDIS_DB"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidInput, err, "%sCACHE_REDIS_DB", envPrefix)
		}
		c.Cache.RedisDB = n
	}
	if v, ok := lookup(envPrefix + "SERVER_MAX_BODY_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidInput, err, "%sSERVER_MAX_BODY_BYTES", envPrefix)
		}
		c.Server.MaxBodyBytes = n
	}
	return nil
}

// Validate checks enumerated values and durations.
func (c Config) Validate() error {
	if !slices.Contains([]string{CacheFile, CacheRedis, CacheNone}, c.Cache.Backend) {
		return errs.New(errs.ErrCodeInvalidInput, "invalid cache backend: %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if !slices.Contains([]string{StoreMemory, StoreMongo}, c.Store.Backend) {
		return errs.New(errs.ErrCodeInvalidInput, "invalid store backend: %q (must be one of: memory, mongo)", c.Store.Backend)
	}
	if _, err := render.ParseContainer(c.Render.Container); err != nil {
		return err
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	if _, err := c.ShutdownTimeout(); err != nil {
		return err
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errs.New(errs.ErrCodeInvalidInput, "server.max_body_bytes must be positive")
	}
	return nil
}

// CacheTTL parses cache.ttl. Zero disables expiry.
func (c Config) CacheTTL() (time.Duration, error) {
	return parseDuration("cache.ttl", c.Cache.TTL)
}

// ShutdownTimeout parses server.shutdown_timeout.
func (c Config) ShutdownTimeout() (time.Duration, error) {
	return parseDuration("server.shutdown_timeout", c.Server.ShutdownTimeout)
}

func parseDuration(key, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, errs.New(errs.ErrCodeInvalidInput, "invalid %s: %q", key, s)
	}
	return d, nil
}

// String renders the effective configuration as TOML.
func (c Config) String() string {
	redacted := c
	if redacted.Cache.RedisPassword != "" {
		redacted.Cache.RedisPassword = "********"
	}
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(redacted); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return b.String()
}
