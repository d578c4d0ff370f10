package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/supplychain/pkg/cache"
	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/httputil"
	"github.com/matzehuels/supplychain/pkg/layout"
	"github.com/matzehuels/supplychain/pkg/observability"
	"github.com/matzehuels/supplychain/pkg/render"
	"github.com/matzehuels/supplychain/pkg/source"
	"github.com/matzehuels/supplychain/pkg/style"
	"github.com/matzehuels/supplychain/pkg/supplychain"
)

// DefaultArtifactTTL is how long rendered artifacts are cached.
const DefaultArtifactTTL = 24 * time.Hour

// Runner executes pipelines with caching.
//
// The Runner is stateless except for its collaborators; multiple
// goroutines can share one Runner with different options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Fetcher *httputil.Fetcher
	Logger  *log.Logger

	// Executor overrides the local algorithm, for example with a worker
	// client. It is used as is, without the layout cache.
	Executor layout.Executor
}

// NewRunner creates a runner. A nil cache disables caching; a nil keyer
// selects [cache.DefaultKeyer].
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs load, layout, and render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	res := &Result{
		Artifacts: make(map[string][]byte),
		CacheInfo: CacheInfo{ArtifactHits: make(map[string]bool)},
	}

	start := time.Now()
	data, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	res.Stats.LoadTime = time.Since(start)
	res.Stats.Items = len(data.Items)
	res.Stats.Connections = len(data.Connections)
	r.Logger.Info("loaded dataset", "source", opts.Source,
		"items", res.Stats.Items, "connections", res.Stats.Connections, "duration", res.Stats.LoadTime)

	start = time.Now()
	m, err := r.Build(ctx, data, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	res.Stats.LayoutTime = time.Since(start)
	res.Scene = m.Scene()
	res.Stats.VisibleNodes = len(res.Scene.Nodes)
	res.Stats.VisibleEdges = len(res.Scene.Edges)
	r.Logger.Info("computed layout", "algorithm", opts.Algorithm,
		"nodes", res.Stats.VisibleNodes, "edges", res.Stats.VisibleEdges, "duration", res.Stats.LayoutTime)

	start = time.Now()
	if err := r.Render(ctx, m, res, opts); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	res.Stats.RenderTime = time.Since(start)
	return res, nil
}

// Load reads the dataset named by opts.Source.
func (r *Runner) Load(ctx context.Context, opts Options) (chain.Data, error) {
	so := opts.SourceOptions
	if so.Logger == nil {
		so.Logger = r.Logger
	}
	src, err := source.Open(ctx, opts.Source, so)
	if err != nil {
		return chain.Data{}, err
	}
	defer src.Close(ctx)
	return src.Load(ctx)
}

// Build creates a model for data and applies the folding and filter
// options. Layout runs complete before Build returns.
func (r *Runner) Build(ctx context.Context, data chain.Data, opts Options) (*supplychain.Model, error) {
	exec := r.Executor
	if exec == nil {
		alg, err := Algorithm(opts.Algorithm)
		if err != nil {
			return nil, err
		}
		exec = layout.NewCachedExecutor(layout.NewLocalExecutor(alg), r.Cache, r.Keyer, 0)
	}

	m, err := supplychain.New(supplychain.Options{
		Providers: chain.Providers{
			Heat:            HeatFromField(opts.HeatField, data),
			ConnectionLabel: LabelFromField(opts.LabelField),
		},
		Layout:            opts.Layout,
		Executor:          exec,
		Animator:          layout.ImmediateAnimator{},
		ViewportAnimation: -1,
		ShowLevel:         opts.Level,
		Fetcher:           r.Fetcher,
		Logger:            r.Logger,
	})
	if err != nil {
		return nil, err
	}
	if err := m.SetData(ctx, data); err != nil {
		return nil, err
	}
	for _, id := range opts.Collapse {
		if err := m.Collapse(ctx, chain.ItemID(id)); err != nil {
			return nil, err
		}
	}
	if opts.Genealogy != "" {
		if err := m.ShowGenealogy(ctx, chain.ItemID(opts.Genealogy), false); err != nil {
			return nil, err
		}
	}
	if opts.Highlight != "" {
		if err := m.Highlight(chain.ItemID(opts.Highlight)); err != nil {
			return nil, err
		}
	}
	m.SetSearchNeedle(opts.Search)
	return m, nil
}

// Render exports the model's scene in every requested format into
// res.Artifacts. Image artifacts are cached by scene and settings.
func (r *Runner) Render(ctx context.Context, m *supplychain.Model, res *Result, opts Options) error {
	settings := render.ExportSettings{
		Zoom:         opts.Zoom,
		Scale:        opts.Scale,
		Margins:      opts.Margins,
		InlineImages: opts.InlineImages,
		Background:   style.BackgroundColor,
		Heat:         opts.HeatField != "",
		Fetcher:      r.Fetcher,
	}
	hash, err := cache.HashJSON(struct {
		Scene    render.Scene
		Settings render.ExportSettings
	}{res.Scene, settings})
	if err != nil {
		return err
	}
	res.SceneHash = hash
	hooks := observability.Cache()

	for _, format := range opts.Formats {
		if format == FormatJSON {
			data, err := json.MarshalIndent(res.Scene, "", "  ")
			if err != nil {
				return err
			}
			res.Artifacts[format] = data
			continue
		}

		key := r.Keyer.ExportKey(hash, format, opts.Scale)
		if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
			hooks.OnCacheHit(ctx, "export")
			res.Artifacts[format] = data
			res.CacheInfo.ArtifactHits[format] = true
			continue
		}
		hooks.OnCacheMiss(ctx, "export")

		data, err := m.Export(ctx, render.Format(format), settings)
		if err != nil {
			return err
		}
		res.Artifacts[format] = data
		if err := r.Cache.Set(ctx, key, data, DefaultArtifactTTL); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
		} else {
			hooks.OnCacheSet(ctx, "export", len(data))
		}
	}
	return nil
}
