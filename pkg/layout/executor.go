package layout

import (
	"context"
	"time"

	"github.com/matzehuels/supplychain/pkg/cache"
	"github.com/matzehuels/supplychain/pkg/graph"
	"github.com/matzehuels/supplychain/pkg/observability"
)

// Executor runs layout requests, in-process or elsewhere. Execute must
// return promptly once ctx is done.
type Executor interface {
	Name() string
	Execute(ctx context.Context, req Request) (graph.Layout, error)
}

// LocalExecutor runs an algorithm in the calling goroutine.
type LocalExecutor struct {
	Algorithm Algorithm
}

// NewLocalExecutor returns an executor for alg.
func NewLocalExecutor(alg Algorithm) *LocalExecutor {
	return &LocalExecutor{Algorithm: alg}
}

func (e *LocalExecutor) Name() string { return e.Algorithm.Name() }

func (e *LocalExecutor) Execute(ctx context.Context, req Request) (graph.Layout, error) {
	return Compute(ctx, e.Algorithm, req)
}

// DefaultCacheTTL is how long cached layouts are kept.
const DefaultCacheTTL = 24 * time.Hour

// Cache writes are retried briefly; a failed write only costs a recompute.
const (
	cacheWriteAttempts = 2
	cacheWriteDelay    = 50 * time.Millisecond
)

// CachedExecutor serves repeated requests from a cache.
type CachedExecutor struct {
	inner Executor
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// NewCachedExecutor wraps inner. A nil keyer selects [cache.DefaultKeyer];
// a zero ttl selects [DefaultCacheTTL].
func NewCachedExecutor(inner Executor, c cache.Cache, keyer cache.Keyer, ttl time.Duration) *CachedExecutor {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedExecutor{inner: inner, cache: c, keyer: keyer, ttl: ttl}
}

func (e *CachedExecutor) Name() string { return e.inner.Name() }

func (e *CachedExecutor) Execute(ctx context.Context, req Request) (graph.Layout, error) {
	key := e.keyer.LayoutKey(req.Hash(), e.inner.Name())
	hooks := observability.Cache()

	if data, ok, err := e.cache.Get(ctx, key); err == nil && ok {
		if l, err := graph.UnmarshalLayout(data); err == nil {
			hooks.OnCacheHit(ctx, "layout")
			return l, nil
		}
	}
	hooks.OnCacheMiss(ctx, "layout")

	l, err := e.inner.Execute(ctx, req)
	if err != nil {
		return l, err
	}
	if data, err := graph.MarshalLayout(l); err == nil {
		err := cache.Retry(ctx, cacheWriteAttempts, cacheWriteDelay, func() error {
			return e.cache.Set(ctx, key, data, e.ttl)
		})
		if err == nil {
			hooks.OnCacheSet(ctx, "layout", len(data))
		}
	}
	return l, nil
}

var (
	_ Executor = (*LocalExecutor)(nil)
	_ Executor = (*CachedExecutor)(nil)
)
