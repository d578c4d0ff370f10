package dag

import (
	"errors"
	"slices"
	"strconv"

	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/geom"
	"github.com/matzehuels/supplychain/pkg/style"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned by [Graph.SetParent] when either node is missing.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the source node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the target node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrSelfParent is returned by [Graph.SetParent] when a node is made its
	// own parent.
	ErrSelfParent = errors.New("node cannot be its own parent")

	// ErrParentCycle is returned by [Graph.SetParent] when the new parent is
	// a descendant of the child.
	ErrParentCycle = errors.New("parent relation would form a cycle")
)

// EdgeID identifies an edge. IDs are assigned by [Graph.AddEdge] and are
// never reused within one graph.
type EdgeID string

// Node is a master node. Item is the record it was built from.
type Node struct {
	ID     chain.ItemID
	Item   *chain.Item
	Group  bool
	Layout geom.Rect
}

// Label is a resolved connection label.
type Label struct {
	Text  string
	Style style.Label
}

// Edge is a master edge. Connection is the record it was built from.
type Edge struct {
	ID         EdgeID
	Source     chain.ItemID
	Target     chain.ItemID
	Connection *chain.Connection
	Bends      []geom.Point
	Style      style.Edge
	Label      *Label
}

// Graph is the master graph.
//
// The zero value is not usable - use New.
type Graph struct {
	nodes     map[chain.ItemID]*Node
	nodeOrder []chain.ItemID

	parent   map[chain.ItemID]chain.ItemID
	children map[chain.ItemID][]chain.ItemID // "" holds the roots

	edges     map[EdgeID]*Edge
	edgeOrder []EdgeID
	between   map[[2]chain.ItemID][]EdgeID
	outgoing  map[chain.ItemID][]EdgeID
	incoming  map[chain.ItemID][]EdgeID

	nextEdge uint64
	revision uint64
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[chain.ItemID]*Node),
		parent:   make(map[chain.ItemID]chain.ItemID),
		children: make(map[chain.ItemID][]chain.ItemID),
		edges:    make(map[EdgeID]*Edge),
		between:  make(map[[2]chain.ItemID][]EdgeID),
		outgoing: make(map[chain.ItemID][]EdgeID),
		incoming: make(map[chain.ItemID][]EdgeID),
	}
}

// Revision returns the structural revision counter.
func (g *Graph) Revision() uint64 { return g.revision }

// Touch advances the revision without a structural change.
func (g *Graph) Touch() { g.revision++ }

// =============================================================================
// Nodes
// =============================================================================

// AddNode adds a root-level node and returns the stored copy.
func (g *Graph) AddNode(n Node) (*Node, error) {
	if n.ID == "" {
		return nil, ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return nil, ErrDuplicateNodeID
	}
	node := &n
	g.nodes[n.ID] = node
	g.nodeOrder = append(g.nodeOrder, n.ID)
	g.children[""] = append(g.children[""], n.ID)
	g.revision++
	return node, nil
}

// RemoveNode removes the node and all incident edges. Its children become
// children of its parent. Returns false if the node does not exist.
func (g *Graph) RemoveNode(id chain.ItemID) bool {
	if _, ok := g.nodes[id]; !ok {
		return false
	}
	for _, eid := range slices.Concat(g.outgoing[id], g.incoming[id]) {
		g.RemoveEdge(eid)
	}
	p := g.parent[id]
	for _, c := range slices.Clone(g.children[id]) {
		g.link(c, p)
	}
	g.unlink(id)
	delete(g.children, id)
	delete(g.nodes, id)
	delete(g.outgoing, id)
	delete(g.incoming, id)
	g.nodeOrder = slices.DeleteFunc(g.nodeOrder, func(n chain.ItemID) bool { return n == id })
	g.revision++
	return true
}

// Node returns the node with the given ID, or nil.
func (g *Graph) Node(id chain.ItemID) *Node { return g.nodes[id] }

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id chain.ItemID) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodeOrder))
	for i, id := range g.nodeOrder {
		out[i] = g.nodes[id]
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// IsGroup reports whether the node exists and is a group node.
func (g *Graph) IsGroup(id chain.ItemID) bool {
	n := g.nodes[id]
	return n != nil && n.Group
}

// =============================================================================
// Grouping Forest
// =============================================================================

// SetParent makes parent the group parent of child. An empty parent moves
// child to the root level.
func (g *Graph) SetParent(child, parent chain.ItemID) error {
	if _, ok := g.nodes[child]; !ok {
		return ErrUnknownNode
	}
	if parent != "" {
		if _, ok := g.nodes[parent]; !ok {
			return ErrUnknownNode
		}
		if parent == child {
			return ErrSelfParent
		}
		for a := parent; a != ""; a = g.parent[a] {
			if a == child {
				return ErrParentCycle
			}
		}
	}
	if g.parent[child] == parent {
		return nil
	}
	g.link(child, parent)
	g.revision++
	return nil
}

func (g *Graph) link(child, parent chain.ItemID) {
	g.unlink(child)
	if parent != "" {
		g.parent[child] = parent
	}
	g.children[parent] = append(g.children[parent], child)
}

func (g *Graph) unlink(child chain.ItemID) {
	old := g.parent[child]
	g.children[old] = slices.DeleteFunc(g.children[old], func(c chain.ItemID) bool { return c == child })
	delete(g.parent, child)
}

// Parent returns the group parent of id, or "" for root-level nodes.
func (g *Graph) Parent(id chain.ItemID) chain.ItemID { return g.parent[id] }

// Children returns the direct group children of id. Pass "" for the roots.
// The returned slice must not be modified.
func (g *Graph) Children(id chain.ItemID) []chain.ItemID { return g.children[id] }

// Ancestors returns the group ancestors of id, nearest first.
func (g *Graph) Ancestors(id chain.ItemID) []chain.ItemID {
	var out []chain.ItemID
	for a := g.parent[id]; a != ""; a = g.parent[a] {
		out = append(out, a)
	}
	return out
}

// Depth returns the number of group ancestors of id.
func (g *Graph) Depth(id chain.ItemID) int {
	d := 0
	for a := g.parent[id]; a != ""; a = g.parent[a] {
		d++
	}
	return d
}

// Descendants returns all group descendants of id in breadth-first order,
// parents before children. Pass "" for every node.
func (g *Graph) Descendants(id chain.ItemID) []chain.ItemID {
	var out []chain.ItemID
	queue := slices.Clone(g.children[id])
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		out = append(out, cur)
		queue = append(queue, g.children[cur]...)
	}
	return out
}

// DescendantsBottomUp returns the descendants of id with children before
// their parents.
func (g *Graph) DescendantsBottomUp(id chain.ItemID) []chain.ItemID {
	out := g.Descendants(id)
	slices.Reverse(out)
	return out
}

// =============================================================================
// Edges
// =============================================================================

// AddEdge adds a directed edge between existing nodes, assigns its ID, and
// returns the stored copy.
func (g *Graph) AddEdge(e Edge) (*Edge, error) {
	if _, ok := g.nodes[e.Source]; !ok {
		return nil, ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.Target]; !ok {
		return nil, ErrUnknownTargetNode
	}
	g.nextEdge++
	e.ID = EdgeID("e" + strconv.FormatUint(g.nextEdge, 10))
	edge := &e
	g.edges[e.ID] = edge
	g.edgeOrder = append(g.edgeOrder, e.ID)
	key := [2]chain.ItemID{e.Source, e.Target}
	g.between[key] = append(g.between[key], e.ID)
	g.outgoing[e.Source] = append(g.outgoing[e.Source], e.ID)
	g.incoming[e.Target] = append(g.incoming[e.Target], e.ID)
	g.revision++
	return edge, nil
}

// RemoveEdge removes the edge. Returns false if it does not exist.
func (g *Graph) RemoveEdge(id EdgeID) bool {
	e, ok := g.edges[id]
	if !ok {
		return false
	}
	match := func(x EdgeID) bool { return x == id }
	key := [2]chain.ItemID{e.Source, e.Target}
	if g.between[key] = slices.DeleteFunc(g.between[key], match); len(g.between[key]) == 0 {
		delete(g.between, key)
	}
	g.outgoing[e.Source] = slices.DeleteFunc(g.outgoing[e.Source], match)
	g.incoming[e.Target] = slices.DeleteFunc(g.incoming[e.Target], match)
	g.edgeOrder = slices.DeleteFunc(g.edgeOrder, match)
	delete(g.edges, id)
	g.revision++
	return true
}

// Edge returns the edge with the given ID, or nil.
func (g *Graph) Edge(id EdgeID) *Edge { return g.edges[id] }

// EdgeBetween returns the first edge from source to target, or nil.
func (g *Graph) EdgeBetween(source, target chain.ItemID) *Edge {
	ids := g.between[[2]chain.ItemID{source, target}]
	if len(ids) == 0 {
		return nil
	}
	return g.edges[ids[0]]
}

// EdgesBetween returns all edges from source to target in insertion order.
func (g *Graph) EdgesBetween(source, target chain.ItemID) []*Edge {
	return g.resolve(g.between[[2]chain.ItemID{source, target}])
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []*Edge { return g.resolve(g.edgeOrder) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Outgoing returns the edges leaving id.
func (g *Graph) Outgoing(id chain.ItemID) []*Edge { return g.resolve(g.outgoing[id]) }

// Incoming returns the edges entering id.
func (g *Graph) Incoming(id chain.ItemID) []*Edge { return g.resolve(g.incoming[id]) }

// EdgesAt returns every edge incident to id. Self-loops appear once.
func (g *Graph) EdgesAt(id chain.ItemID) []*Edge {
	out := g.Outgoing(id)
	for _, e := range g.Incoming(id) {
		if e.Source != id {
			out = append(out, e)
		}
	}
	return out
}

func (g *Graph) resolve(ids []EdgeID) []*Edge {
	if len(ids) == 0 {
		return nil
	}
	out := make([]*Edge, len(ids))
	for i, id := range ids {
		out[i] = g.edges[id]
	}
	return out
}

// NodeIDs extracts the ID from each node in a slice.
func NodeIDs(nodes []*Node) []chain.ItemID {
	ids := make([]chain.ItemID, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
