// Package highlight tracks connected-item highlighting across fold changes.
//
// Highlight membership is stored as master items, not view items. Folding
// and filtering replace view items, so the drawn highlight is a separate
// set that [Manager.Activate] recomputes from the master set: each master
// node resolves to its nearest visible view node, and each master edge to
// the view edge that currently draws it. Callers deactivate before a
// structural change and activate after it.
package highlight

import (
	"slices"

	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/dag"
	"github.com/matzehuels/supplychain/pkg/fold"
)

// Neighborhood returns the connected component of start in the view graph,
// following edges in both directions. Nodes are in breadth-first order with
// start first; edges are those with both endpoints in the component.
func Neighborhood(v *fold.View, start chain.ItemID) ([]chain.ItemID, []fold.EdgeID) {
	if v.ViewNode(start) == nil {
		return nil, nil
	}
	adj := make(map[chain.ItemID][]*fold.Edge)
	for _, e := range v.Edges() {
		adj[e.Source] = append(adj[e.Source], e)
		if e.Target != e.Source {
			adj[e.Target] = append(adj[e.Target], e)
		}
	}

	seen := map[chain.ItemID]bool{start: true}
	nodes := []chain.ItemID{start}
	for i := 0; i < len(nodes); i++ {
		cur := nodes[i]
		for _, e := range adj[cur] {
			next := e.Target
			if next == cur {
				next = e.Source
			}
			if !seen[next] {
				seen[next] = true
				nodes = append(nodes, next)
			}
		}
	}

	var edges []fold.EdgeID
	for _, e := range v.Edges() {
		if seen[e.Source] && seen[e.Target] {
			edges = append(edges, e.ID)
		}
	}
	return nodes, edges
}

// Manager holds the logical and the drawn highlight.
// It is not safe for concurrent use.
type Manager struct {
	nodes map[chain.ItemID]bool
	edges map[dag.EdgeID]bool

	drawnNodes map[chain.ItemID]bool
	drawnEdges map[fold.EdgeID]bool
}

// New creates an empty manager.
func New() *Manager {
	return &Manager{
		nodes:      make(map[chain.ItemID]bool),
		edges:      make(map[dag.EdgeID]bool),
		drawnNodes: make(map[chain.ItemID]bool),
		drawnEdges: make(map[fold.EdgeID]bool),
	}
}

// HighlightNeighborhood replaces the highlight with the connected component
// of a view node and draws it. Returns false if start is not visible.
func (m *Manager) HighlightNeighborhood(v *fold.View, start chain.ItemID) bool {
	nodes, edges := Neighborhood(v, start)
	if nodes == nil {
		return false
	}
	m.Clear()
	for _, id := range nodes {
		m.nodes[id] = true
	}
	for _, id := range edges {
		for _, me := range v.MasterEdges(id) {
			m.edges[me.ID] = true
		}
	}
	m.Activate(v)
	return true
}

// AddNode adds a master node to the highlight. Call Activate to draw it.
func (m *Manager) AddNode(id chain.ItemID) { m.nodes[id] = true }

// AddEdge adds a master edge to the highlight.
func (m *Manager) AddEdge(id dag.EdgeID) { m.edges[id] = true }

// Clear removes every highlight.
func (m *Manager) Clear() {
	clear(m.nodes)
	clear(m.edges)
	m.Deactivate()
}

// Deactivate removes the drawn highlight and keeps the logical one.
func (m *Manager) Deactivate() {
	clear(m.drawnNodes)
	clear(m.drawnEdges)
}

// Activate redraws the logical highlight on the current view.
func (m *Manager) Activate(v *fold.View) {
	m.Deactivate()
	for id := range m.nodes {
		if n := v.NearestVisible(id); n != nil {
			m.drawnNodes[n.ID] = true
		}
	}
	for id := range m.edges {
		if e := v.ViewEdgeFor(id); e != nil {
			m.drawnEdges[e.ID] = true
		}
	}
}

// Len returns the number of highlighted master nodes and edges.
func (m *Manager) Len() int { return len(m.nodes) + len(m.edges) }

// Nodes returns the highlighted master node ids, sorted.
func (m *Manager) Nodes() []chain.ItemID {
	out := make([]chain.ItemID, 0, len(m.nodes))
	for id := range m.nodes {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// IsNodeHighlighted reports whether a view node is drawn highlighted.
func (m *Manager) IsNodeHighlighted(id chain.ItemID) bool { return m.drawnNodes[id] }

// IsEdgeHighlighted reports whether a view edge is drawn highlighted.
func (m *Manager) IsEdgeHighlighted(id fold.EdgeID) bool { return m.drawnEdges[id] }
