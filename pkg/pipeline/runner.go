package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sankey/pkg/cache"
	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/observability"
	"github.com/matzehuels/sankey/pkg/tree"
)

// cacheKeyType labels artifact keys in cache hook events.
const cacheKeyType = "artifact"

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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
	}
}

// Execute runs the complete flatten → layout → scene → render pipeline
// with caching. Flatten always runs, so invalid input is rejected even when
// artifacts for the same bytes are cached.
func (r *Runner) Execute(ctx context.Context, root *tree.Node, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Flatten
	flattenStart := time.Now()
	g, err := Flatten(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("flatten: %w", err)
	}
	result.Graph = g
	result.Stats.FlattenTime = time.Since(flattenStart)
	result.Stats.NodeCount = len(g.Nodes)
	result.Stats.LinkCount = len(g.Links)
	result.Height = opts.SizePolicy().CanvasHeight(len(g.Nodes))

	treeHash, err := cache.HashJSON(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash tree")
	}
	result.TreeHash = treeHash

	r.Logger.Info("flattened tree",
		"nodes", len(g.Nodes),
		"links", len(g.Links),
		"height", result.Height,
		"duration", result.Stats.FlattenTime)

	if !opts.Refresh {
		if artifacts, ok := r.cachedArtifacts(ctx, treeHash, opts); ok {
			result.Artifacts = artifacts
			result.CacheInfo.RenderHit = true
			r.Logger.Info("artifacts from cache", "formats", opts.Formats)
			return result, nil
		}
	}

	var artifacts map[string][]byte
	if opts.IsNodelink() {
		renderStart := time.Now()
		artifacts, err = RenderNodelink(ctx, g, opts)
		if err != nil {
			return nil, err
		}
		result.Stats.RenderTime = time.Since(renderStart)
	} else {
		// Stage 2: Layout
		layoutStart := time.Now()
		pos, height, err := ComputeLayout(ctx, g, opts)
		if err != nil {
			return nil, fmt.Errorf("layout: %w", err)
		}
		result.Positioned = pos
		result.Height = height
		result.Stats.LayoutTime = time.Since(layoutStart)

		r.Logger.Info("computed layout",
			"nodes", len(pos.Nodes),
			"duration", result.Stats.LayoutTime)

		// Stage 3: Scene
		sceneStart := time.Now()
		sc, err := BuildScene(ctx, pos, height, opts)
		if err != nil {
			return nil, fmt.Errorf("scene: %w", err)
		}
		result.Scene = sc
		result.Stats.SceneTime = time.Since(sceneStart)
		result.Stats.LabelCount, result.Stats.TruncatedCount = labelCounts(sc)

		// Stage 4: Render
		renderStart := time.Now()
		artifacts, err = RenderScene(ctx, sc, opts)
		if err != nil {
			return nil, err
		}
		result.Stats.RenderTime = time.Since(renderStart)
	}
	result.Artifacts = artifacts

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	r.storeArtifacts(ctx, treeHash, opts, artifacts)
	return result, nil
}

// cachedArtifacts returns every requested format from the cache, or false
// if any format is missing.
func (r *Runner) cachedArtifacts(ctx context.Context, treeHash string, opts Options) (map[string][]byte, bool) {
	hooks := observability.Cache()
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(treeHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "key", key, "err", err)
		}
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, cacheKeyType)
			return nil, false
		}
		hooks.OnCacheHit(ctx, cacheKeyType)
		artifacts[format] = data
	}
	return artifacts, len(artifacts) == len(opts.Formats)
}

// storeArtifacts writes each rendered format to the cache. Write failures
// are logged and otherwise ignored.
func (r *Runner) storeArtifacts(ctx context.Context, treeHash string, opts Options, artifacts map[string][]byte) {
	hooks := observability.Cache()
	for format, data := range artifacts {
		key := r.Keyer.ArtifactKey(treeHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "err", err)
			continue
		}
		hooks.OnCacheSet(ctx, cacheKeyType, len(data))
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
