package supplychain

import (
	"context"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/dag"
	"github.com/matzehuels/supplychain/pkg/diff"
	"github.com/matzehuels/supplychain/pkg/fold"
	"github.com/matzehuels/supplychain/pkg/geom"
	"github.com/matzehuels/supplychain/pkg/highlight"
	"github.com/matzehuels/supplychain/pkg/layout"
	"github.com/matzehuels/supplychain/pkg/layout/layered"
	"github.com/matzehuels/supplychain/pkg/store"
	"github.com/matzehuels/supplychain/pkg/style"
	"github.com/matzehuels/supplychain/pkg/viewport"
)

// Model is one interactive diagram.
type Model struct {
	mu        sync.Mutex
	opts      Options
	providers chain.Providers
	logger    *log.Logger

	store     *store.Store
	view      *fold.View
	highlight *highlight.Manager
	palette   *style.Palette
	vp        *viewport.Viewport
	orch      *layout.Orchestrator

	data       chain.Data
	loaded     bool
	needle     string
	suppressed map[string]bool

	changeMu sync.Mutex
	onChange []func()
}

// New creates an empty model.
func New(opts Options) (*Model, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	m := &Model{
		opts:       opts,
		providers:  opts.Providers,
		logger:     opts.Logger,
		highlight:  highlight.New(),
		palette:    style.NewPalette(),
		vp:         viewport.New(opts.ViewportSize),
		suppressed: make(map[string]bool),
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard)
	}
	m.store = store.New(dag.New(), store.Options{
		DefaultSize:     opts.ItemSize,
		ConnectionStyle: opts.Providers.ConnectionStyle,
		ConnectionLabel: opts.Providers.ConnectionLabel,
		Logger:          m.logger,
	})
	m.view = fold.New(m.store.Graph(), fold.Options{FolderSize: opts.FolderSize, Styler: m.store})

	exec := opts.Executor
	if exec == nil {
		exec = layout.NewLocalExecutor(layered.New())
	}
	m.orch = layout.NewOrchestrator(layout.Config{
		Target:   &target{m: m},
		Executor: exec,
		Animator: opts.Animator,
		Options:  opts.Layout,
		Grid:     opts.Providers.GridPositioning,
		OnBounds: func(b geom.Rect, _ bool) { m.vp.SetContent(b) },
		Logger:   m.logger,
	})
	return m, nil
}

// OnChange registers a callback invoked after every operation that changes
// what the diagram shows. Callbacks run without the model lock held.
func (m *Model) OnChange(fn func()) {
	m.changeMu.Lock()
	m.onChange = append(m.onChange, fn)
	m.changeMu.Unlock()
}

func (m *Model) changed() {
	m.changeMu.Lock()
	fns := slices.Clone(m.onChange)
	m.changeMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Refresh notifies change listeners without changing anything, so that
// renderers repaint after external state such as provider output changed.
func (m *Model) Refresh() { m.changed() }

// Viewport returns the model's viewport.
func (m *Model) Viewport() *viewport.Viewport { return m.vp }

// Running reports whether a layout run is in progress.
func (m *Model) Running() bool { return m.orch.Running() }

// Cancel supersedes the active layout run, if any.
func (m *Model) Cancel() { m.orch.Cancel() }

// LayoutOptions returns the default layout options.
func (m *Model) LayoutOptions() layout.Options { return m.orch.Options() }

// SetExecutor replaces the layout executor for later runs.
func (m *Model) SetExecutor(e layout.Executor) { m.orch.SetExecutor(e) }

// =============================================================================
// Data
// =============================================================================

// SetData replaces the diagram's records.
func (m *Model) SetData(ctx context.Context, data chain.Data) error {
	m.mu.Lock()
	first := !m.loaded
	changes := diff.Data(m.data, data)
	if first || disjoint(m.data, data) {
		m.palette.Reset()
	}
	m.highlight.Deactivate()
	res := m.store.Load(ctx, data)
	m.highlight.Activate(m.view)
	m.data = data
	m.loaded = true

	var nodes []string
	seen := make(map[chain.ItemID]bool)
	for _, id := range changes.ItemIDs() {
		if n := m.view.NearestVisible(id); n != nil && !seen[n.ID] {
			seen[n.ID] = true
			nodes = append(nodes, string(n.ID))
		}
	}
	m.mu.Unlock()

	m.logger.Debug("data set", "items", len(data.Items), "connections", len(data.Connections),
		"changed", len(changes.Items)+len(changes.Connections), "first", first)
	defer m.changed()

	switch {
	case first && m.opts.ShowLevel > 0:
		return m.ShowLevel(ctx, m.opts.ShowLevel)
	case first:
		return m.runLayout(ctx, layout.Run{Fit: true})
	case changes.Empty() && !res.Changed():
		return nil
	}
	return m.runLayout(ctx, layout.Run{Incremental: true, Nodes: nodes, Fit: true})
}

// disjoint reports whether no item id survives from prev to next.
func disjoint(prev, next chain.Data) bool {
	ids := make(map[chain.ItemID]bool, len(prev.Items))
	for _, it := range prev.Items {
		if it != nil {
			ids[it.ID] = true
		}
	}
	for _, it := range next.Items {
		if it != nil && ids[it.ID] {
			return false
		}
	}
	return true
}

// Data returns the records last passed to SetData.
func (m *Model) Data() chain.Data {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data
}

// Reconfigure replaces the strategy callbacks. Edge styles and labels are
// recomputed immediately; the grid positioner applies to the next run.
func (m *Model) Reconfigure(p chain.Providers) {
	m.mu.Lock()
	m.providers = p
	m.store.Reconfigure(p.ConnectionStyle, p.ConnectionLabel)
	m.view.SetStyler(m.store)
	m.mu.Unlock()
	m.orch.SetGrid(p.GridPositioning)
	m.changed()
}

// =============================================================================
// Inspector
// =============================================================================

// IsGroupItem reports whether id is a group item.
func (m *Model) IsGroupItem(id chain.ItemID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.IsGroupItem(id)
}

// IsConnection reports whether ref is a connection or folding connection.
func (m *Model) IsConnection(ref chain.Ref) bool { return ref.IsConnection() }

// IsFoldingConnection reports whether ref is a folding connection.
func (m *Model) IsFoldingConnection(ref chain.Ref) bool { return ref.IsFoldingConnection() }

// Children returns the items grouped directly under id.
func (m *Model) Children(id chain.ItemID) []*chain.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Children(id)
}

// GetChildren is an alias of Children.
func (m *Model) GetChildren(id chain.ItemID) []*chain.Item { return m.Children(id) }

// Item returns the record of an item, or nil.
func (m *Model) Item(id chain.ItemID) *chain.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n := m.store.NodeForID(id); n != nil {
		return n.Item
	}
	return nil
}

// Heat returns the heat of an item or connection, or 0 without a heat
// function.
func (m *Model) Heat(ref chain.Ref) float64 {
	m.mu.Lock()
	h := m.providers.Heat
	m.mu.Unlock()
	if h == nil {
		return 0
	}
	return h.Heat(ref, m)
}

var _ chain.Inspector = (*Model)(nil)
