// Package observability provides hooks for metrics and tracing.
//
// This package enables optional instrumentation without tying the engine to
// a specific backend. Consumers register hooks at startup to receive events
// about data synchronization, layout runs, the layout worker, and caches.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Two adapters ship with the package: [Metrics] (Prometheus) implements every
// hook interface, and [Tracing] (OpenTelemetry) implements [LayoutHooks].
//
// # Usage
//
// Register hooks at application startup:
//
//	m := observability.NewMetrics(prometheus.DefaultRegisterer)
//	observability.SetSyncHooks(m)
//	observability.SetLayoutHooks(observability.ChainLayoutHooks(m, observability.NewTracing()))
//
// Libraries call hooks to emit events:
//
//	ctx = observability.Layout().OnLayoutStart(ctx, "layered", nodes, incremental)
//	// ... run the layout ...
//	observability.Layout().OnLayoutComplete(ctx, "layered", "completed", time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the layout orchestrator.
type LayoutHooks interface {
	// OnLayoutStart is called before a run. The returned context is passed to
	// OnLayoutComplete, so tracers can carry a span through it.
	OnLayoutStart(ctx context.Context, algorithm string, nodeCount int, incremental bool) context.Context

	// OnLayoutComplete is called once per run with its outcome
	// ("completed", "superseded", "aborted", "failed").
	OnLayoutComplete(ctx context.Context, algorithm, outcome string, duration time.Duration, err error)
}

// =============================================================================
// Sync Hooks
// =============================================================================

// SyncHooks receives events from the graph store.
type SyncHooks interface {
	// OnSync records one synchronization of application data into the master graph.
	OnSync(ctx context.Context, nodes, edges, dropped int, duration time.Duration)
}

// =============================================================================
// Worker Hooks
// =============================================================================

// WorkerHooks receives events from the layout worker protocol.
type WorkerHooks interface {
	// OnRequest records a request handed to a worker.
	OnRequest(ctx context.Context, token string)

	// OnReply records a reply accepted for the awaited token.
	OnReply(ctx context.Context, token string, duration time.Duration, err error)

	// OnStaleReply records a reply discarded because its token is not awaited.
	OnStaleReply(ctx context.Context, token string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(ctx context.Context, _ string, _ int, _ bool) context.Context {
	return ctx
}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, string, string, time.Duration, error) {}

// NoopSyncHooks is a no-op implementation of SyncHooks.
type NoopSyncHooks struct{}

func (NoopSyncHooks) OnSync(context.Context, int, int, int, time.Duration) {}

// NoopWorkerHooks is a no-op implementation of WorkerHooks.
type NoopWorkerHooks struct{}

func (NoopWorkerHooks) OnRequest(context.Context, string)                      {}
func (NoopWorkerHooks) OnReply(context.Context, string, time.Duration, error) {}
func (NoopWorkerHooks) OnStaleReply(context.Context, string)                   {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Composition
// =============================================================================

type layoutChain []LayoutHooks

// ChainLayoutHooks fans layout events out to several hooks in order.
func ChainLayoutHooks(hooks ...LayoutHooks) LayoutHooks { return layoutChain(hooks) }

func (c layoutChain) OnLayoutStart(ctx context.Context, algorithm string, nodeCount int, incremental bool) context.Context {
	for _, h := range c {
		ctx = h.OnLayoutStart(ctx, algorithm, nodeCount, incremental)
	}
	return ctx
}

func (c layoutChain) OnLayoutComplete(ctx context.Context, algorithm, outcome string, d time.Duration, err error) {
	for _, h := range c {
		h.OnLayoutComplete(ctx, algorithm, outcome, d, err)
	}
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	syncHooks   SyncHooks   = NoopSyncHooks{}
	workerHooks WorkerHooks = NoopWorkerHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetSyncHooks registers custom sync hooks.
func SetSyncHooks(h SyncHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		syncHooks = h
	}
}

// SetWorkerHooks registers custom worker hooks.
func SetWorkerHooks(h WorkerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		workerHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Sync returns the registered sync hooks.
func Sync() SyncHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return syncHooks
}

// Worker returns the registered worker hooks.
func Worker() WorkerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return workerHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	syncHooks = NoopSyncHooks{}
	workerHooks = NoopWorkerHooks{}
	cacheHooks = NoopCacheHooks{}
}
