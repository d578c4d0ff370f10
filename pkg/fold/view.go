package fold

import (
	"strings"

	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/dag"
	"github.com/matzehuels/supplychain/pkg/geom"
	"github.com/matzehuels/supplychain/pkg/style"
)

// Default folder size.
const (
	DefaultFolderWidth  = 300
	DefaultFolderHeight = 100
)

const foldPrefix = "fold:"

// EdgeID identifies a view edge.
type EdgeID string

// IsFolding reports whether id names a folding edge.
func (id EdgeID) IsFolding() bool {
	return strings.HasPrefix(string(id), foldPrefix)
}

func foldingID(src, tgt chain.ItemID) EdgeID {
	return EdgeID(foldPrefix + string(src) + "->" + string(tgt))
}

// Node is a view node.
type Node struct {
	ID     chain.ItemID
	Parent chain.ItemID
	Item   *chain.Item

	// Group is set for master group nodes, Folder for collapsed ones.
	Group  bool
	Folder bool
}

// IsExpandedGroup reports whether the node is drawn as an open container.
func (n *Node) IsExpandedGroup() bool { return n.Group && !n.Folder }

// Edge is a view edge. Exactly one of Master and Folding is set.
type Edge struct {
	ID      EdgeID
	Source  chain.ItemID
	Target  chain.ItemID
	Master  *dag.Edge
	Folding *chain.FoldingConnection
	Style   style.Edge
	Label   *dag.Label
}

// Ref returns the connection or folding connection the edge stands for.
func (e *Edge) Ref() chain.Ref {
	if e.Folding != nil {
		return chain.FoldingRef(e.Folding)
	}
	if e.Master != nil {
		return chain.ConnectionRef(e.Master.Connection)
	}
	return chain.Ref{}
}

// Styler resolves styles and labels for folding edges.
type Styler interface {
	Triples(cs []*chain.Connection) []chain.Triple
	StyleFor(triples []chain.Triple) style.Edge
	LabelFor(ref chain.Ref) *dag.Label
}

// Options configures a [View].
type Options struct {
	// FolderSize is the initial size of a folder. Zero selects
	// DefaultFolderWidth x DefaultFolderHeight.
	FolderSize geom.Size

	// Styler styles folding edges. Nil selects the default style and no label.
	Styler Styler
}

// View is the folded and filtered projection of a master graph.
// It is not safe for concurrent use.
type View struct {
	g    *dag.Graph
	opts Options

	collapsed    map[chain.ItemID]bool
	folders      map[chain.ItemID]geom.Rect
	folderSizes  map[chain.ItemID]geom.Size
	expanded     map[chain.ItemID]geom.Rect
	hiddenNodes  map[chain.ItemID]bool
	hiddenEdges  map[dag.EdgeID]bool
	foldingBends map[EdgeID][]geom.Point

	gen      uint64
	builtGen uint64
	builtRev uint64
	built    bool

	nodes     []*Node
	nodeIndex map[chain.ItemID]*Node
	children  map[chain.ItemID][]chain.ItemID
	edges     []*Edge
	edgeIndex map[EdgeID]*Edge
	byMaster  map[dag.EdgeID]EdgeID
}

// New creates a view over g with every group expanded and nothing hidden.
func New(g *dag.Graph, opts Options) *View {
	if opts.FolderSize.IsZero() {
		opts.FolderSize = geom.Size{Width: DefaultFolderWidth, Height: DefaultFolderHeight}
	}
	return &View{
		g:            g,
		opts:         opts,
		collapsed:    make(map[chain.ItemID]bool),
		folders:      make(map[chain.ItemID]geom.Rect),
		folderSizes:  make(map[chain.ItemID]geom.Size),
		expanded:     make(map[chain.ItemID]geom.Rect),
		hiddenNodes:  make(map[chain.ItemID]bool),
		hiddenEdges:  make(map[dag.EdgeID]bool),
		foldingBends: make(map[EdgeID][]geom.Point),
	}
}

// Master returns the master graph.
func (v *View) Master() *dag.Graph { return v.g }

// SetStyler replaces the folding-edge styler.
func (v *View) SetStyler(s Styler) {
	v.opts.Styler = s
	v.invalidate()
}

// Generation returns a counter that advances on every fold or filter change.
func (v *View) Generation() uint64 { return v.gen }

func (v *View) invalidate() { v.gen++ }

// =============================================================================
// Building
// =============================================================================

// rep returns the visible node that represents a master node: the topmost
// collapsed ancestor, or the node itself. Returns "" if the node or an
// ancestor is hidden.
func (v *View) rep(id chain.ItemID) chain.ItemID {
	if v.hiddenNodes[id] {
		return ""
	}
	r := id
	for a := v.g.Parent(id); a != ""; a = v.g.Parent(a) {
		if v.hiddenNodes[a] {
			return ""
		}
		if v.collapsed[a] {
			r = a
		}
	}
	return r
}

func (v *View) ensure() {
	if v.built && v.builtGen == v.gen && v.builtRev == v.g.Revision() {
		return
	}
	v.prune()
	v.rebuild()
	v.built = true
	v.builtGen = v.gen
	v.builtRev = v.g.Revision()
}

// prune forgets state for master nodes and edges that no longer exist.
func (v *View) prune() {
	for id := range v.collapsed {
		if !v.g.HasNode(id) {
			delete(v.collapsed, id)
			delete(v.folders, id)
			delete(v.folderSizes, id)
			delete(v.expanded, id)
		}
	}
	for id := range v.hiddenNodes {
		if !v.g.HasNode(id) {
			delete(v.hiddenNodes, id)
		}
	}
	for id := range v.hiddenEdges {
		if v.g.Edge(id) == nil {
			delete(v.hiddenEdges, id)
		}
	}
}

func (v *View) rebuild() {
	v.nodes = nil
	v.nodeIndex = make(map[chain.ItemID]*Node)
	v.children = make(map[chain.ItemID][]chain.ItemID)
	for _, m := range v.g.Nodes() {
		if v.rep(m.ID) != m.ID {
			continue
		}
		n := &Node{
			ID:     m.ID,
			Parent: v.g.Parent(m.ID),
			Item:   m.Item,
			Group:  m.Group,
			Folder: m.Group && v.collapsed[m.ID],
		}
		v.nodes = append(v.nodes, n)
		v.nodeIndex[n.ID] = n
		v.children[n.Parent] = append(v.children[n.Parent], n.ID)
	}

	v.edges = nil
	v.edgeIndex = make(map[EdgeID]*Edge)
	v.byMaster = make(map[dag.EdgeID]EdgeID)
	var folding []*Edge
	for _, m := range v.g.Edges() {
		if v.hiddenEdges[m.ID] {
			continue
		}
		rs, rt := v.rep(m.Source), v.rep(m.Target)
		if rs == "" || rt == "" {
			continue
		}
		if rs == m.Source && rt == m.Target {
			e := &Edge{
				ID:     EdgeID(m.ID),
				Source: m.Source,
				Target: m.Target,
				Master: m,
				Style:  m.Style,
				Label:  m.Label,
			}
			v.edges = append(v.edges, e)
			v.edgeIndex[e.ID] = e
			v.byMaster[m.ID] = e.ID
			continue
		}
		if rs == rt {
			continue
		}
		id := foldingID(rs, rt)
		e := v.edgeIndex[id]
		if e == nil {
			e = &Edge{ID: id, Source: rs, Target: rt, Folding: &chain.FoldingConnection{}}
			v.edges = append(v.edges, e)
			v.edgeIndex[id] = e
			folding = append(folding, e)
		}
		if m.Connection != nil {
			e.Folding.Connections = append(e.Folding.Connections, m.Connection)
		}
		v.byMaster[m.ID] = id
	}

	for _, e := range folding {
		e.Style = style.DefaultEdge()
		if s := v.opts.Styler; s != nil {
			e.Style = s.StyleFor(s.Triples(e.Folding.Connections))
			e.Label = s.LabelFor(chain.FoldingRef(e.Folding))
		}
	}
	for id := range v.foldingBends {
		if _, ok := v.edgeIndex[id]; !ok {
			delete(v.foldingBends, id)
		}
	}
}

// =============================================================================
// Queries
// =============================================================================

// Nodes returns the view nodes in master order.
func (v *View) Nodes() []*Node {
	v.ensure()
	return v.nodes
}

// Edges returns the view edges. Plain edges keep master order; a folding
// edge appears where its first contributor would.
func (v *View) Edges() []*Edge {
	v.ensure()
	return v.edges
}

// NodeCount returns the number of view nodes.
func (v *View) NodeCount() int { return len(v.Nodes()) }

// EdgeCount returns the number of view edges.
func (v *View) EdgeCount() int { return len(v.Edges()) }

// ViewNode returns the view node of a master node, or nil if it is folded
// away or filtered out.
func (v *View) ViewNode(id chain.ItemID) *Node {
	v.ensure()
	return v.nodeIndex[id]
}

// Edge returns the view edge with the given id, or nil.
func (v *View) Edge(id EdgeID) *Edge {
	v.ensure()
	return v.edgeIndex[id]
}

// Children returns the visible children of a view node. Pass "" for the
// top level.
func (v *View) Children(id chain.ItemID) []chain.ItemID {
	v.ensure()
	return v.children[id]
}

// EdgesAt returns the view edges incident to a view node.
func (v *View) EdgesAt(id chain.ItemID) []*Edge {
	var out []*Edge
	for _, e := range v.Edges() {
		if e.Source == id || e.Target == id {
			out = append(out, e)
		}
	}
	return out
}

// MasterNode returns the master node of a view node.
func (v *View) MasterNode(id chain.ItemID) *dag.Node {
	if v.ViewNode(id) == nil {
		return nil
	}
	return v.g.Node(id)
}

// MasterEdges returns the master edges a view edge stands for.
func (v *View) MasterEdges(id EdgeID) []*dag.Edge {
	e := v.Edge(id)
	if e == nil {
		return nil
	}
	if e.Master != nil {
		return []*dag.Edge{e.Master}
	}
	var out []*dag.Edge
	for _, m := range v.g.Edges() {
		if v.byMaster[m.ID] == id {
			out = append(out, m)
		}
	}
	return out
}

// ViewEdgeFor returns the view edge that currently draws a master edge, or
// nil if it is hidden or internal to a folder.
func (v *View) ViewEdgeFor(id dag.EdgeID) *Edge {
	v.ensure()
	vid, ok := v.byMaster[id]
	if !ok {
		return nil
	}
	return v.edgeIndex[vid]
}

// NearestVisible resolves a master node to the view node that currently
// represents it: the node itself, or its nearest visible group ancestor.
func (v *View) NearestVisible(id chain.ItemID) *Node {
	v.ensure()
	if !v.g.HasNode(id) {
		return nil
	}
	for a := id; a != ""; a = v.g.Parent(a) {
		if n := v.nodeIndex[a]; n != nil {
			return n
		}
	}
	return nil
}

// =============================================================================
// Geometry
// =============================================================================

// NodeLayout returns the rectangle of a view node.
func (v *View) NodeLayout(id chain.ItemID) geom.Rect {
	if v.collapsed[id] && v.g.IsGroup(id) {
		return v.folders[id]
	}
	if m := v.g.Node(id); m != nil {
		return m.Layout
	}
	return geom.Rect{}
}

// SetNodeLayout moves a view node.
func (v *View) SetNodeLayout(id chain.ItemID, r geom.Rect) {
	if v.collapsed[id] && v.g.IsGroup(id) {
		v.folders[id] = r
		return
	}
	if m := v.g.Node(id); m != nil {
		m.Layout = r
	}
}

// EdgeBends returns the bend points of a view edge.
func (v *View) EdgeBends(id EdgeID) []geom.Point {
	e := v.Edge(id)
	switch {
	case e == nil:
		return nil
	case e.Master != nil:
		return e.Master.Bends
	}
	return v.foldingBends[id]
}

// SetEdgeBends replaces the bend points of a view edge.
func (v *View) SetEdgeBends(id EdgeID, bends []geom.Point) {
	e := v.Edge(id)
	switch {
	case e == nil:
	case e.Master != nil:
		e.Master.Bends = bends
	default:
		v.foldingBends[id] = bends
	}
}
