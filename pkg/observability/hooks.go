// Package observability lets callers watch a textuml process without the
// library packages depending on any metrics or tracing backend.
//
// Three hook sets exist, one per event source:
//
//   - [PipelineHooks] receives extraction, scene and render events from
//     the pipeline runner.
//   - [CacheHooks] receives hit, miss and write events for extraction
//     results and rendered artifacts.
//   - [HTTPHooks] receives exchanges with the extraction service (client
//     side) and requests handled by the API server (server side).
//
// Every set defaults to a no-op. A binary registers its own implementation
// once at startup:
//
//	observability.SetPipelineHooks(promPipeline{})
//
// Implementations must be safe for concurrent use; artifacts for several
// formats are rendered in parallel.
package observability

import (
	"context"
	"sync"
	"time"
)

// ExtractEvent describes one call to an extractor.
type ExtractEvent struct {
	Source   string // extractor name, e.g. "heuristic" or "http"
	TextLen  int
	Classes  int
	Duration time.Duration
	Err      error
}

// SceneEvent describes one layout-and-draw pass.
type SceneEvent struct {
	VizType  string
	Boxes    int
	Edges    int
	Dropped  int
	Duration time.Duration
}

// RenderEvent describes the encoding of a scene into output formats.
type RenderEvent struct {
	Formats  []string
	Cached   bool
	Duration time.Duration
	Err      error
}

// PipelineHooks receives events from the diagram pipeline.
type PipelineHooks interface {
	OnExtract(ctx context.Context, ev ExtractEvent)
	OnScene(ctx context.Context, ev SceneEvent)
	OnRender(ctx context.Context, ev RenderEvent)
}

// CacheOp is the kind of cache access.
type CacheOp string

const (
	CacheHit  CacheOp = "hit"
	CacheMiss CacheOp = "miss"
	CacheSet  CacheOp = "set"
)

// CacheEvent describes one cache access. Kind is "extraction" or
// "artifact"; Size is only set for writes.
type CacheEvent struct {
	Kind string
	Op   CacheOp
	Size int
}

// CacheHooks receives events from cache lookups and writes.
type CacheHooks interface {
	OnCache(ctx context.Context, ev CacheEvent)
}

// Side tells whether an HTTP exchange was made by textuml or served by it.
type Side string

const (
	Client Side = "client"
	Server Side = "server"
)

// RequestEvent describes one finished HTTP exchange. Status is zero when
// Err is a network failure.
type RequestEvent struct {
	Side     Side
	Method   string
	Host     string
	Path     string
	Status   int
	Duration time.Duration
	Err      error
}

// HTTPHooks receives finished HTTP exchanges.
type HTTPHooks interface {
	OnRequest(ctx context.Context, ev RequestEvent)
}

// NoopPipelineHooks ignores all events.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnExtract(context.Context, ExtractEvent) {}
func (NoopPipelineHooks) OnScene(context.Context, SceneEvent)     {}
func (NoopPipelineHooks) OnRender(context.Context, RenderEvent)   {}

// NoopCacheHooks ignores all events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCache(context.Context, CacheEvent) {}

// NoopHTTPHooks ignores all events.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, RequestEvent) {}

var (
	hooksMu       sync.RWMutex
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
)

// SetPipelineHooks registers pipeline hooks. A nil value is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h == nil {
		return
	}
	hooksMu.Lock()
	pipelineHooks = h
	hooksMu.Unlock()
}

// SetCacheHooks registers cache hooks. A nil value is ignored.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	hooksMu.Lock()
	cacheHooks = h
	hooksMu.Unlock()
}

// SetHTTPHooks registers HTTP hooks. A nil value is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h == nil {
		return
	}
	hooksMu.Lock()
	httpHooks = h
	hooksMu.Unlock()
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores the no-op hooks. Tests use it in t.Cleanup.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
