package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/keygrid/pkg/cache"
	"github.com/matzehuels/keygrid/pkg/config"
	kgio "github.com/matzehuels/keygrid/pkg/io"
	"github.com/matzehuels/keygrid/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
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

// cachedResult is the cache entry of a resolved layout.
type cachedResult struct {
	Document       kgio.Document   `json:"document"`
	Graph          json.RawMessage `json:"graph"`
	MirrorAxis     *float64        `json:"mirror_axis,omitempty"`
	Ignored        []string        `json:"ignored,omitempty"`
	PointCount     int             `json:"point_count"`
	MirrorCount    int             `json:"mirror_count"`
	PlacementCount int             `json:"placement_count"`
}

// Execute runs the complete load → resolve → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}
	logger := opts.Logger.With("run", result.RunID[:8])
	opts.Logger = logger

	// Stage 1: Load
	loadStart := time.Now()
	var (
		layout *config.Layout
		data   []byte
	)
	err := stage(ctx, "load", func() (int, error) {
		var err error
		layout, data, err = Load(opts)
		if err != nil {
			return 0, err
		}
		result.Ignored = layout.Ignored
		return len(layout.Points), nil
	})
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.LayoutHash = cache.Digest(data)
	result.Stats.LoadTime = time.Since(loadStart)

	// Stage 2: Resolve
	resolveStart := time.Now()
	hit, err := r.resolveWithCache(ctx, layout, opts, result)
	if err != nil {
		return nil, err
	}
	result.Stats.ResolveTime = time.Since(resolveStart)
	result.CacheInfo.ResolveHit = hit

	logger.Info("resolved layout",
		"units", result.Stats.UnitCount,
		"points", result.Stats.PointCount,
		"mirrored", result.Stats.MirrorCount,
		"placements", result.Stats.PlacementCount,
		"cached", hit,
		"duration", result.Stats.ResolveTime)

	// Stage 3: Render
	if len(opts.Formats) == 0 {
		return result, nil
	}
	renderStart := time.Now()
	err = stage(ctx, "render", func() (int, error) {
		artifacts, hit, err := r.RenderWithCacheInfo(ctx, result, opts)
		result.Artifacts = artifacts
		result.CacheInfo.RenderHit = hit
		return len(artifacts), err
	})
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Stats.RenderTime = time.Since(renderStart)

	logger.Info("rendered reference graph",
		"formats", opts.Formats,
		"cached", result.CacheInfo.RenderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// resolveWithCache fills result from the cache or by resolving the layout.
func (r *Runner) resolveWithCache(ctx context.Context, layout *config.Layout, opts Options, result *Result) (bool, error) {
	enabled := cache.Enabled(r.Cache)
	cacheKey := r.Keyer.ResultKey(result.LayoutHash, opts.ResultKeyOpts())

	if enabled && !opts.Refresh {
		if raw, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if err := result.restore(raw); err == nil {
				observability.Cache().OnCacheHit(ctx, "result")
				return true, nil
			}
			opts.Logger.Debug("discarding unreadable cache entry", "key", cacheKey)
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, "result")
	}

	res, err := Resolve(ctx, layout, opts)
	if err != nil {
		return false, err
	}
	result.fill(res)
	if !enabled {
		return false, nil
	}

	if raw, err := result.snapshot(); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, raw, cache.TTLResult); err != nil {
			opts.Logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "result", len(raw))
		}
	}
	return false, nil
}

// RenderWithCacheInfo renders the reference graph of result with caching
// and reports whether every format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, result *Result, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	enabled := cache.Enabled(r.Cache)
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.GraphKey(result.LayoutHash, opts.GraphKeyOpts(format))
		if enabled && !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "graph")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "graph")
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, result.Graph, renderOpts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		if !enabled {
			continue
		}
		key := r.Keyer.GraphKey(result.LayoutHash, opts.GraphKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLGraph); err == nil {
			observability.Cache().OnCacheSet(ctx, "graph", len(data))
		}
	}
	return artifacts, false, nil
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

func (res *Result) fill(r *Resolution) {
	res.Document = kgio.NewDocument(r.Units, r.Order, r.Points)
	res.Points = r.Points
	res.Order = r.Order
	res.MirrorAxis = r.MirrorAxis
	res.Graph = r.Graph
	res.Stats.UnitCount = r.Units.Len()
	res.Stats.PointCount = r.PointCount
	res.Stats.MirrorCount = r.MirrorCount
	res.Stats.PlacementCount = r.PlacementCount
}

func (res *Result) snapshot() ([]byte, error) {
	var graph bytes.Buffer
	if err := kgio.WriteGraph(res.Graph, &graph); err != nil {
		return nil, err
	}
	return json.Marshal(cachedResult{
		Document:       res.Document,
		Graph:          graph.Bytes(),
		MirrorAxis:     res.MirrorAxis,
		Ignored:        res.Ignored,
		PointCount:     res.Stats.PointCount,
		MirrorCount:    res.Stats.MirrorCount,
		PlacementCount: res.Stats.PlacementCount,
	})
}

func (res *Result) restore(data []byte) error {
	var c cachedResult
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}
	g, err := kgio.ReadGraph(bytes.NewReader(c.Graph))
	if err != nil {
		return err
	}
	res.Document = c.Document
	res.Points, res.Order = c.Document.PointMap()
	res.MirrorAxis = c.MirrorAxis
	res.Graph = g
	res.Ignored = c.Ignored
	res.Stats.UnitCount = len(c.Document.Units)
	res.Stats.PointCount = c.PointCount
	res.Stats.MirrorCount = c.MirrorCount
	res.Stats.PlacementCount = c.PlacementCount
	return nil
}
