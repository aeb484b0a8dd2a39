package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/classdiagram/pkg/cache"
	"github.com/matzehuels/classdiagram/pkg/io"
	"github.com/matzehuels/classdiagram/pkg/observability"
)

const cacheKeyType = "artifact"

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state, so multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL bounds how long artifacts stay cached. Zero means no expiry.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLArtifact,
	}
}

// Execute runs build → render for def, consulting the cache first.
//
// On a cache hit only Artifact, DefinitionHash and CacheHit are set.
func (r *Runner) Execute(ctx context.Context, def io.Definition, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	hash, err := HashDefinition(def)
	if err != nil {
		return nil, err
	}
	result := &Result{DefinitionHash: hash}
	key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts())

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			opts.Logger.Warn("cache read failed", "err", err)
		}
		if hit {
			observability.Cache().OnCacheHit(ctx, cacheKeyType)
			opts.Logger.Debug("cache hit", "source", opts.Source, "format", opts.Format)
			result.Artifact = data
			result.CacheHit = true
			return result, nil
		}
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
	}

	// Stage 1: Build
	buildStart := time.Now()
	d, err := Build(ctx, def, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Diagram = d
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.ClassCount = len(d.Classes())
	result.Stats.RelationshipCount = len(d.Relationships())
	result.Stats.NamespaceCount = len(d.Namespaces())

	opts.Logger.Info("built diagram",
		"source", opts.Source,
		"classes", result.Stats.ClassCount,
		"relationships", result.Stats.RelationshipCount,
		"duration", result.Stats.BuildTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifact, text, err := Render(ctx, d, opts)
	if err != nil {
		return nil, err
	}
	result.Artifact = artifact
	result.Text = text
	result.Stats.RenderTime = time.Since(renderStart)

	opts.Logger.Info("rendered diagram",
		"format", opts.Format,
		"bytes", len(artifact),
		"duration", result.Stats.RenderTime)

	if err := r.Cache.Set(ctx, key, artifact, r.TTL); err != nil {
		opts.Logger.Warn("cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, cacheKeyType, len(artifact))
	}

	return result, nil
}

// HashDefinition returns the content hash used to key cached artifacts.
func HashDefinition(def io.Definition) (string, error) {
	data, err := json.Marshal(def)
	if err != nil {
		return "", fmt.Errorf("hash definition: %w", err)
	}
	return cache.Hash(data), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
