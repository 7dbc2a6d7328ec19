// Package observability provides hooks for metrics and tracing.
//
// Libraries emit events through the registered hooks without depending on a
// metrics backend. The defaults do nothing; the binary installs a real
// implementation at startup, such as the Prometheus hooks in the prom
// subpackage:
//
//	observability.SetPipelineHooks(metrics)
//	observability.SetCacheHooks(metrics)
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnResolveStart(ctx, nodes)
//	// ... resolve ...
//	observability.Pipeline().OnResolveComplete(ctx, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// Resolution stages reported through [PipelineHooks.OnStage].
const (
	StageBuild    = "build"
	StageLayout   = "layout"
	StageAnchors  = "anchors"
	StageRoute    = "route"
	StageOptimize = "optimize"
	StageRender   = "render"
)

// PipelineHooks receives events from schematic resolution.
type PipelineHooks interface {
	OnResolveStart(ctx context.Context, nodes int)
	OnResolveComplete(ctx context.Context, duration time.Duration, err error)

	// OnStage reports the completion of one resolution stage.
	OnStage(ctx context.Context, stage string, duration time.Duration, err error)

	// OnOptimizeRound reports one optimizer round and whether it changed
	// the configuration.
	OnOptimizeRound(ctx context.Context, round int, score float64, accepted bool)

	// OnRoutingFallback reports a link drawn straight because no
	// orthogonal path existed.
	OnRoutingFallback(ctx context.Context, link string)
}

// CacheHooks receives events from cache lookups.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, status int, duration time.Duration)
}

// NoopPipelineHooks ignores all pipeline events.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnResolveStart(context.Context, int)                     {}
func (NoopPipelineHooks) OnResolveComplete(context.Context, time.Duration, error) {}
func (NoopPipelineHooks) OnStage(context.Context, string, time.Duration, error)   {}
func (NoopPipelineHooks) OnOptimizeRound(context.Context, int, float64, bool)     {}
func (NoopPipelineHooks) OnRoutingFallback(context.Context, string)               {}

// NoopCacheHooks ignores all cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores all HTTP events.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
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

// Reset restores the no-op hooks. Tests use it to isolate registrations.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
