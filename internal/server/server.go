package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/supplychain/pkg/errors"
	"github.com/matzehuels/supplychain/pkg/source"
	"github.com/matzehuels/supplychain/pkg/supplychain"
)

// Defaults for [Options].
const (
	DefaultAddr            = ":8080"
	DefaultReloadDebounce  = 200 * time.Millisecond
	DefaultShutdownTimeout = 5 * time.Second
)

// Options configure a [Server].
type Options struct {
	Addr string

	// Source is reloaded on file changes when Watch is set. It may be nil.
	Source source.Source
	Watch  bool

	// ReloadDebounce batches bursts of file events.
	ReloadDebounce time.Duration

	// Gatherer serves /metrics. Nil uses the default registry.
	Gatherer prometheus.Gatherer

	Logger *log.Logger
}

// Server serves one model.
type Server struct {
	model  *supplychain.Model
	opts   Options
	logger *log.Logger
	hub    *hub
}

// New creates a server for model. Scene changes are pushed to websocket
// clients from now on.
func New(model *supplychain.Model, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.ReloadDebounce <= 0 {
		opts.ReloadDebounce = DefaultReloadDebounce
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	s := &Server{
		model:  model,
		opts:   opts,
		logger: opts.Logger,
		hub:    newHub(opts.Logger),
	}
	model.OnChange(func() { s.hub.broadcast(model.Scene()) })
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))
	r.Get("/ws", s.handleWebsocket)

	r.Route("/api", func(r chi.Router) {
		r.Get("/scene", s.handleScene)
		r.Route("/items/{id}", func(r chi.Router) {
			r.Get("/", s.handleItem)
			r.Post("/collapse", s.itemAction(s.model.Collapse))
			r.Post("/expand", s.itemAction(s.model.Expand))
			r.Post("/toggle", s.itemAction(s.model.Toggle))
			r.Post("/zoom", s.itemAction(s.model.ZoomToItem))
			r.Post("/highlight", s.handleHighlight)
			r.Post("/genealogy", s.handleGenealogy)
		})
		r.Delete("/highlight", s.handleClearHighlight)
		r.Post("/level/{n}", s.handleLevel)
		r.Post("/show-all", s.handleShowAll)
		r.Post("/layout", s.handleLayout)
		r.Put("/search", s.handleSearch)
		r.Get("/export.{format}", s.handleExport)
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", s.opts.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(errors.ErrCodeNetwork, err, "serve %s", s.opts.Addr)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.hub.close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if file, ok := s.opts.Source.(*source.File); ok && s.opts.Watch {
		g.Go(func() error { return s.watch(ctx, file) })
	}
	return g.Wait()
}

// Reload loads the source again and synchronizes the model.
func (s *Server) Reload(ctx context.Context) error {
	if s.opts.Source == nil {
		return errors.New(errors.ErrCodeContract, "reload: no source configured")
	}
	data, err := s.opts.Source.Load(ctx)
	if err != nil {
		return err
	}
	return s.model.SetData(ctx, data)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"id", middleware.GetReqID(r.Context()))
	})
}
