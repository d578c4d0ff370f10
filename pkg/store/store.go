package store

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/dag"
	"github.com/matzehuels/supplychain/pkg/geom"
	"github.com/matzehuels/supplychain/pkg/observability"
	"github.com/matzehuels/supplychain/pkg/style"
)

// Default item size for records without an explicit width and height.
const (
	DefaultItemWidth  = 200
	DefaultItemHeight = 80
)

// Options configures a [Store].
type Options struct {
	// DefaultSize applies to new items without an explicit size.
	// Zero selects DefaultItemWidth x DefaultItemHeight.
	DefaultSize geom.Size

	// ConnectionStyle styles edges. Nil selects [style.DefaultEdge].
	ConnectionStyle chain.ConnectionStyleProvider

	// ConnectionLabel labels edges. Nil shows no labels.
	ConnectionLabel chain.ConnectionLabelProvider

	// Inspector is handed to the label provider. Nil uses the store itself.
	Inspector chain.Inspector

	Logger *log.Logger
}

// Result counts the effects of one [Store.Sync].
type Result struct {
	AddedNodes   int
	UpdatedNodes int
	RemovedNodes int
	AddedEdges   int
	UpdatedEdges int
	RemovedEdges int

	// Dropped counts duplicate items and dangling connections.
	Dropped int
}

// Changed reports whether the sync altered the graph's structure.
func (r Result) Changed() bool {
	return r.AddedNodes+r.RemovedNodes+r.AddedEdges+r.RemovedEdges > 0
}

// Store owns the master graph.
type Store struct {
	g      *dag.Graph
	opts   Options
	logger *log.Logger
}

// New creates a store over g. Pass dag.New() for an empty graph.
func New(g *dag.Graph, opts Options) *Store {
	if opts.DefaultSize.IsZero() {
		opts.DefaultSize = geom.Size{Width: DefaultItemWidth, Height: DefaultItemHeight}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{g: g, opts: opts, logger: logger}
}

// Graph returns the master graph.
func (s *Store) Graph() *dag.Graph { return s.g }

// DefaultSize returns the size given to new items.
func (s *Store) DefaultSize() geom.Size { return s.opts.DefaultSize }

// Reconfigure replaces the style and label providers and restyles every edge.
func (s *Store) Reconfigure(styles chain.ConnectionStyleProvider, labels chain.ConnectionLabelProvider) {
	s.opts.ConnectionStyle = styles
	s.opts.ConnectionLabel = labels
	for _, e := range s.g.Edges() {
		s.bind(e)
	}
	s.g.Touch()
}

// =============================================================================
// Ingest
// =============================================================================

// Ingest partitions items into plain items and group items. An item is a
// group item if another item names it as parent. Self-parents do not make a
// group.
func Ingest(items []*chain.Item) (nodes, groups []*chain.Item) {
	parents := make(map[chain.ItemID]bool)
	for _, it := range items {
		if it != nil && it.HasParent() {
			parents[it.ParentID] = true
		}
	}
	for _, it := range items {
		if it == nil {
			continue
		}
		if parents[it.ID] {
			groups = append(groups, it)
		} else {
			nodes = append(nodes, it)
		}
	}
	return nodes, groups
}

// Load ingests data and syncs it into the graph.
func (s *Store) Load(ctx context.Context, data chain.Data) Result {
	nodes, groups := Ingest(data.Items)
	return s.Sync(ctx, nodes, groups, data.Connections)
}

// =============================================================================
// Sync
// =============================================================================

// Sync makes the graph mirror the given records. Nodes and edges that
// already exist keep their geometry.
func (s *Store) Sync(ctx context.Context, nodes, groups []*chain.Item, connections []*chain.Connection) Result {
	start := time.Now()
	var res Result

	wanted := make(map[chain.ItemID]*chain.Item, len(nodes)+len(groups))
	isGroup := make(map[chain.ItemID]bool, len(groups))
	var order []*chain.Item
	add := func(it *chain.Item, group bool) {
		if it == nil || it.ID == "" {
			res.Dropped++
			return
		}
		if _, dup := wanted[it.ID]; dup {
			s.logger.Debug("duplicate item dropped", "id", it.ID)
			res.Dropped++
			return
		}
		wanted[it.ID] = it
		isGroup[it.ID] = group
		order = append(order, it)
	}
	for _, it := range groups {
		add(it, true)
	}
	for _, it := range nodes {
		add(it, false)
	}

	for _, n := range s.g.Nodes() {
		if _, ok := wanted[n.ID]; !ok {
			res.RemovedEdges += len(s.g.EdgesAt(n.ID))
			s.g.RemoveNode(n.ID)
			res.RemovedNodes++
		}
	}

	for _, it := range order {
		if n := s.g.Node(it.ID); n != nil {
			n.Item = it
			n.Group = isGroup[it.ID]
			if it.HasSize() {
				n.Layout = geom.RectAt(n.Layout.TopLeft(), geom.Size{Width: it.Width, Height: it.Height})
			}
			res.UpdatedNodes++
			continue
		}
		size := s.opts.DefaultSize
		if it.HasSize() {
			size = geom.Size{Width: it.Width, Height: it.Height}
		}
		if _, err := s.g.AddNode(dag.Node{
			ID:     it.ID,
			Item:   it,
			Group:  isGroup[it.ID],
			Layout: geom.RectAt(geom.Point{}, size),
		}); err != nil {
			res.Dropped++
			continue
		}
		res.AddedNodes++
	}

	s.syncParents(order, wanted)
	s.syncEdges(connections, &res)

	s.g.Touch()
	s.logger.Debug("sync complete",
		"nodes", s.g.NodeCount(), "edges", s.g.EdgeCount(),
		"added", res.AddedNodes, "removed", res.RemovedNodes, "dropped", res.Dropped)
	observability.Sync().OnSync(ctx, s.g.NodeCount(), s.g.EdgeCount(), res.Dropped, time.Since(start))
	return res
}

// syncParents applies parent links. Links that change are first cut so that
// a valid new forest can be built in any record order.
func (s *Store) syncParents(order []*chain.Item, wanted map[chain.ItemID]*chain.Item) {
	desired := func(it *chain.Item) chain.ItemID {
		if !it.HasParent() {
			return ""
		}
		if _, ok := wanted[it.ParentID]; !ok {
			return ""
		}
		return it.ParentID
	}
	for _, it := range order {
		if s.g.Parent(it.ID) != desired(it) {
			if err := s.g.SetParent(it.ID, ""); err != nil {
				s.logger.Debug("parent link not cut", "id", it.ID, "err", err)
			}
		}
	}
	for _, it := range order {
		p := desired(it)
		if p == "" || s.g.Parent(it.ID) == p {
			continue
		}
		if err := s.g.SetParent(it.ID, p); err != nil {
			if errors.Is(err, dag.ErrParentCycle) {
				s.logger.Debug("parent cycle broken", "id", it.ID, "parent", p)
			} else {
				s.logger.Debug("parent link dropped", "id", it.ID, "parent", p, "err", err)
			}
		}
	}
}

func (s *Store) syncEdges(connections []*chain.Connection, res *Result) {
	used := make(map[dag.EdgeID]bool, len(connections))
	occurrence := make(map[[2]chain.ItemID]int)
	for _, c := range connections {
		if c == nil || !s.g.HasNode(c.SourceID) || !s.g.HasNode(c.TargetID) {
			res.Dropped++
			continue
		}
		key := c.Key()
		k := occurrence[key]
		occurrence[key] = k + 1

		var e *dag.Edge
		if existing := s.g.EdgesBetween(c.SourceID, c.TargetID); k < len(existing) {
			e = existing[k]
			res.UpdatedEdges++
		} else {
			var err error
			if e, err = s.g.AddEdge(dag.Edge{Source: c.SourceID, Target: c.TargetID}); err != nil {
				res.Dropped++
				continue
			}
			res.AddedEdges++
		}
		e.Connection = c
		s.bind(e)
		used[e.ID] = true
	}
	for _, e := range s.g.Edges() {
		if !used[e.ID] {
			s.g.RemoveEdge(e.ID)
			res.RemovedEdges++
		}
	}
}

// bind recomputes the style and label of e from its connection.
func (s *Store) bind(e *dag.Edge) {
	if e.Connection == nil {
		e.Style = style.DefaultEdge()
		e.Label = nil
		return
	}
	e.Style = s.StyleFor([]chain.Triple{s.triple(e.Connection)})
	e.Label = s.LabelFor(chain.ConnectionRef(e.Connection))
}

func (s *Store) triple(c *chain.Connection) chain.Triple {
	t := chain.Triple{Connection: c}
	if n := s.g.Node(c.SourceID); n != nil {
		t.Source = n.Item
	}
	if n := s.g.Node(c.TargetID); n != nil {
		t.Target = n.Item
	}
	return t
}

// Triples returns the style provider input for a set of connections.
func (s *Store) Triples(cs []*chain.Connection) []chain.Triple {
	out := make([]chain.Triple, len(cs))
	for i, c := range cs {
		out[i] = s.triple(c)
	}
	return out
}

// StyleFor resolves the style of a visual connection made of triples.
func (s *Store) StyleFor(triples []chain.Triple) style.Edge {
	if s.opts.ConnectionStyle != nil {
		if st := s.opts.ConnectionStyle.ConnectionStyle(triples); st != nil {
			return st.Resolve()
		}
	}
	return style.DefaultEdge()
}

// LabelFor resolves the label of a connection or folding connection.
// Returns nil when there is no provider or it returns nothing.
func (s *Store) LabelFor(ref chain.Ref) *dag.Label {
	if s.opts.ConnectionLabel == nil {
		return nil
	}
	l := s.opts.ConnectionLabel.ConnectionLabel(ref, s.inspector())
	if l == nil {
		return nil
	}
	return &dag.Label{Text: l.Text, Style: style.LabelFor(l.Shape, l.ClassName)}
}

func (s *Store) inspector() chain.Inspector {
	if s.opts.Inspector != nil {
		return s.opts.Inspector
	}
	return s
}

// SetInspector replaces the inspector handed to the label provider.
func (s *Store) SetInspector(i chain.Inspector) { s.opts.Inspector = i }

// =============================================================================
// Lookup
// =============================================================================

// NodeForID returns the master node of an item, or nil.
func (s *Store) NodeForID(id chain.ItemID) *dag.Node { return s.g.Node(id) }

// EdgeForIDs returns the first master edge from source to target, or nil.
func (s *Store) EdgeForIDs(source, target chain.ItemID) *dag.Edge {
	return s.g.EdgeBetween(source, target)
}

// =============================================================================
// Inspector
// =============================================================================

// IsGroupItem reports whether id is a group item.
func (s *Store) IsGroupItem(id chain.ItemID) bool { return s.g.IsGroup(id) }

// IsConnection reports whether ref is a connection or folding connection.
func (s *Store) IsConnection(ref chain.Ref) bool { return ref.IsConnection() }

// IsFoldingConnection reports whether ref is a folding connection.
func (s *Store) IsFoldingConnection(ref chain.Ref) bool { return ref.IsFoldingConnection() }

// Children returns the items grouped directly under id.
func (s *Store) Children(id chain.ItemID) []*chain.Item {
	var out []*chain.Item
	for _, c := range s.g.Children(id) {
		if n := s.g.Node(c); n != nil && n.Item != nil {
			out = append(out, n.Item)
		}
	}
	return out
}

var _ chain.Inspector = (*Store)(nil)
