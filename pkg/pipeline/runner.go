package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/textuml/pkg/cache"
	"github.com/matzehuels/textuml/pkg/errors"
	"github.com/matzehuels/textuml/pkg/extract"
	"github.com/matzehuels/textuml/pkg/model"
	"github.com/matzehuels/textuml/pkg/observability"
	"github.com/matzehuels/textuml/pkg/render"
	"github.com/matzehuels/textuml/pkg/summary"
)

// Cache key types reported to observability hooks.
const (
	keyTypeExtraction = "extraction"
	keyTypeArtifact   = "artifact"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for its collaborators; it does not store
// results. Multiple goroutines can safely use the same Runner.
type Runner struct {
	Cache     cache.Cache
	Keyer     cache.Keyer
	Extractor extract.Extractor
	Logger    *log.Logger
	TTL       time.Duration
}

// NewRunner creates a runner.
// A nil cache disables caching, a nil keyer selects [cache.DefaultKeyer]
// and a nil extractor selects [extract.Heuristic].
func NewRunner(c cache.Cache, keyer cache.Keyer, ex extract.Extractor, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if ex == nil {
		ex = extract.Heuristic{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Extractor: ex, Logger: logger, TTL: DefaultTTL}
}

// Execute runs the complete extract → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	d := opts.Diagram
	var (
		hit         bool
		extractTime time.Duration
	)
	if d == nil {
		start := time.Now()
		var err error
		d, hit, err = r.ExtractWithCacheInfo(ctx, opts.Text, opts.Refresh)
		if err != nil {
			return nil, err
		}
		extractTime = time.Since(start)
		r.Logger.Info("extracted diagram",
			"entities", len(d.Classes),
			"relationships", len(d.Relationships),
			"cached", hit,
			"duration", extractTime)
	}

	res, err := r.Render(ctx, d, opts)
	if err != nil {
		return nil, err
	}
	res.Stats.ExtractTime = extractTime
	res.CacheInfo.ExtractHit = hit
	return res, nil
}

// ExtractWithCacheInfo extracts a diagram from text with caching and reports
// whether the result came from the cache. Failed extractions are not cached.
func (r *Runner) ExtractWithCacheInfo(ctx context.Context, text string, refresh bool) (*model.Diagram, bool, error) {
	if err := errors.ValidateText(text); err != nil {
		return nil, false, err
	}

	source := r.source()
	key := r.Keyer.ExtractionKey(source, text)

	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var d model.Diagram
			if err := cache.Decode(data, &d); err == nil {
				observability.Cache().OnCache(ctx, observability.CacheEvent{Kind: keyTypeExtraction, Op: observability.CacheHit})
				return d.Normalize(), true, nil
			}
			r.Logger.Debug("discarding corrupt cache entry", "key", key)
		}
		observability.Cache().OnCache(ctx, observability.CacheEvent{Kind: keyTypeExtraction, Op: observability.CacheMiss})
	}

	ev := observability.ExtractEvent{Source: source, TextLen: len(text)}
	start := time.Now()
	d, err := r.Extractor.Extract(ctx, text)
	ev.Duration = time.Since(start)
	if err != nil {
		ev.Err = err
		observability.Pipeline().OnExtract(ctx, ev)
		return nil, false, err
	}
	d.Normalize()
	ev.Classes = len(d.Classes)
	observability.Pipeline().OnExtract(ctx, ev)

	if data, err := cache.Encode(d); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCache(ctx, observability.CacheEvent{Kind: keyTypeExtraction, Op: observability.CacheSet, Size: len(data)})
		}
	}
	return d, false, nil
}

// Extract is ExtractWithCacheInfo without the cache hit info.
func (r *Runner) Extract(ctx context.Context, text string, refresh bool) (*model.Diagram, error) {
	d, _, err := r.ExtractWithCacheInfo(ctx, text, refresh)
	return d, err
}

// Render lays out and renders an existing diagram. Artifacts are cached by
// diagram hash and render options.
func (r *Runner) Render(ctx context.Context, d *model.Diagram, opts Options) (*Result, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	if d == nil {
		return nil, errors.New(errors.ErrCodeInvalidDiagram, "no diagram")
	}
	d = d.Clone().Normalize()
	if err := d.Validate(); err != nil {
		return nil, err
	}

	hash, err := cache.HashValue(d)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash diagram")
	}
	res := &Result{
		Diagram:     d,
		DiagramHash: hash,
		Summary:     summary.Summarize(d),
	}

	hooks := observability.Pipeline()
	start := time.Now()
	res.Scene = render.Render(d)
	res.Stats.LayoutTime = time.Since(start)
	res.Stats.Entities = len(res.Scene.Boxes)
	res.Stats.Relationships = len(res.Scene.Edges)
	res.Stats.Dropped = res.Scene.Dropped
	hooks.OnScene(ctx, observability.SceneEvent{
		VizType:  opts.VizType,
		Boxes:    res.Stats.Entities,
		Edges:    res.Stats.Relationships,
		Dropped:  res.Stats.Dropped,
		Duration: res.Stats.LayoutTime,
	})
	if res.Scene.Dropped > 0 {
		r.Logger.Debug("dropped relationships with unknown endpoints", "count", res.Scene.Dropped)
	}

	start = time.Now()
	res.Artifacts, res.CacheInfo.RenderHit, err = r.renderCached(ctx, res.Scene, hash, opts)
	res.Stats.RenderTime = time.Since(start)
	hooks.OnRender(ctx, observability.RenderEvent{
		Formats:  opts.Formats,
		Cached:   res.CacheInfo.RenderHit,
		Duration: res.Stats.RenderTime,
		Err:      err,
	})
	if err != nil {
		return nil, err
	}

	r.Logger.Info("rendered diagram",
		"formats", opts.Formats,
		"viz", opts.VizType,
		"cached", res.CacheInfo.RenderHit,
		"duration", res.Stats.RenderTime)
	return res, nil
}

func (r *Runner) renderCached(ctx context.Context, s *render.Scene, hash string, opts Options) (map[string][]byte, bool, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCache(ctx, observability.CacheEvent{Kind: keyTypeArtifact, Op: observability.CacheHit})
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCache(ctx, observability.CacheEvent{Kind: keyTypeArtifact, Op: observability.CacheMiss})
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	sub := opts
	sub.Formats = missing
	rendered, err := RenderArtifacts(ctx, s, sub)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCache(ctx, observability.CacheEvent{Kind: keyTypeArtifact, Op: observability.CacheSet, Size: len(data)})
	}
	return artifacts, false, nil
}

// source identifies the extractor in cache keys. HTTP extractors include
// their endpoint so two services never share entries.
func (r *Runner) source() string {
	name := extract.NameOf(r.Extractor)
	if u, ok := r.Extractor.(interface{ URL() string }); ok {
		return fmt.Sprintf("%s:%s", name, u.URL())
	}
	return name
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return DefaultTTL
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
