package worker

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/supplychain/pkg/cache"
	"github.com/matzehuels/supplychain/pkg/layout"
)

// DefaultConcurrency is the number of requests a worker handles at once.
const DefaultConcurrency = 1

// ServeOptions configures [Serve].
type ServeOptions struct {
	// Cache stores results keyed by request hash. Nil disables caching.
	Cache    cache.Cache
	Keyer    cache.Keyer
	CacheTTL time.Duration

	// Concurrency is the number of parallel handlers. Zero selects
	// DefaultConcurrency.
	Concurrency int

	Logger *log.Logger
}

// Serve handles requests from l with alg until ctx is done or the listener
// closes. A closed listener or a done context is a clean shutdown.
func Serve(ctx context.Context, l Listener, alg layout.Algorithm, opts ServeOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	n := opts.Concurrency
	if n <= 0 {
		n = DefaultConcurrency
	}

	var exec layout.Executor = layout.NewLocalExecutor(alg)
	if opts.Cache != nil {
		exec = layout.NewCachedExecutor(exec, opts.Cache, opts.Keyer, opts.CacheTTL)
	}

	g, ctx := errgroup.WithContext(ctx)
	for range n {
		g.Go(func() error {
			for {
				req, err := l.Accept(ctx)
				if errors.Is(err, ErrMalformed) {
					logger.Warn("dropping layout request", "err", err)
					continue
				}
				if err != nil {
					if ctx.Err() != nil || errors.Is(err, ErrClosed) {
						return nil
					}
					return err
				}
				resp := handle(ctx, exec, req, logger)
				if err := l.Reply(ctx, req, resp); err != nil {
					if ctx.Err() != nil || errors.Is(err, ErrClosed) {
						return nil
					}
					logger.Warn("layout reply failed", "token", req.Token, "err", err)
				}
			}
		})
	}
	return g.Wait()
}

func handle(ctx context.Context, exec layout.Executor, req Request, logger *log.Logger) Response {
	start := time.Now()
	l, err := exec.Execute(ctx, req.Request)
	resp := Response{Token: req.Token}
	switch {
	case errors.Is(err, layout.ErrAborted):
		resp.Aborted = true
		resp.Error = err.Error()
		logger.Warn("layout aborted", "token", req.Token, "elapsed", time.Since(start))
	case err != nil:
		resp.Error = err.Error()
		logger.Error("layout failed", "token", req.Token, "err", err)
	default:
		resp.Layout = &l
		logger.Debug("layout done", "token", req.Token, "nodes", len(l.Nodes), "elapsed", time.Since(start))
	}
	return resp
}
