package layered

import (
	"context"

	"github.com/matzehuels/supplychain/pkg/geom"
	"github.com/matzehuels/supplychain/pkg/graph"
	"github.com/matzehuels/supplychain/pkg/layout"
)

// compound lays out the grouping forest level by level. All coordinates
// are canonical until result maps them to the requested direction.
type compound struct {
	req        layout.Request
	opts       layout.Options
	frame      frame
	insets     geom.Insets
	iterations int

	nodes    map[string]graph.Node
	parent   map[string]string
	children map[string][]string
	movable  map[string]bool

	rel       map[string]geom.Rect    // relative to the parent's content origin
	relBends  map[string][]geom.Point // relative to the owning level
	edgeLevel map[string]string

	abs    map[string]geom.Rect
	origin map[string]geom.Point
}

func newCompound(req layout.Request, opts layout.Options, iterations int) *compound {
	f := frame{dir: opts.Direction}
	c := &compound{
		req:        req,
		opts:       opts,
		frame:      f,
		insets:     f.insets(opts.GroupInsets),
		iterations: iterations,
		nodes:      make(map[string]graph.Node, len(req.Graph.Nodes)),
		parent:     make(map[string]string, len(req.Graph.Nodes)),
		children:   make(map[string][]string),
		movable:    make(map[string]bool),
		rel:        make(map[string]geom.Rect, len(req.Graph.Nodes)),
		relBends:   make(map[string][]geom.Point, len(req.Graph.Edges)),
		edgeLevel:  make(map[string]string, len(req.Graph.Edges)),
		abs:        make(map[string]geom.Rect, len(req.Graph.Nodes)),
		origin:     make(map[string]geom.Point),
	}
	for _, n := range req.Graph.Nodes {
		c.nodes[n.ID] = n
	}
	for _, n := range req.Graph.Nodes {
		p := n.Parent
		if parent, ok := c.nodes[p]; !ok || !parent.Group {
			p = ""
		}
		c.parent[n.ID] = p
		c.children[p] = append(c.children[p], n.ID)
	}
	for _, n := range req.Graph.Nodes {
		c.movable[n.ID] = c.isMovable(n.ID)
	}
	return c
}

// isMovable reports whether id is free to move in incremental mode.
func (c *compound) isMovable(id string) bool {
	hints := c.req.Constraints.Hints
	if hints[id] != "" {
		return true
	}
	for a := c.parent[id]; a != ""; a = c.parent[a] {
		if hints[a] == layout.HintIncrementalGroup {
			return true
		}
	}
	return false
}

// lift returns the ancestor-or-self of id that is a direct member of
// parent, or "" if id lies outside parent.
func (c *compound) lift(id, parent string) string {
	if _, ok := c.nodes[id]; !ok {
		return ""
	}
	for cur := id; ; cur = c.parent[cur] {
		if c.parent[cur] == parent {
			return cur
		}
		if c.parent[cur] == "" {
			return ""
		}
	}
}

// layoutLevel lays out the members of parent, recursing into nested
// groups first, and returns the canonical content size.
func (c *compound) layoutLevel(ctx context.Context, parent string) (geom.Size, error) {
	members := c.children[parent]
	if len(members) == 0 {
		return geom.Size{}, nil
	}

	lv := &level{
		sizes:   make([]geom.Size, len(members)),
		current: make([]float64, len(members)),
		movable: make([]bool, len(members)),
		rows:    make([]int, len(members)),
		columns: make([]int, len(members)),
	}
	index := make(map[string]int, len(members))
	for i, id := range members {
		index[id] = i
		n := c.nodes[id]
		size := c.frame.size(n.Bounds.Size())
		if n.Group {
			inner, err := c.layoutLevel(ctx, id)
			if err != nil {
				return geom.Size{}, err
			}
			size = geom.Size{
				Width:  inner.Width + c.insets.Horizontal(),
				Height: inner.Height + c.insets.Vertical(),
			}
		}
		lv.sizes[i] = size
		lv.current[i] = c.crossCenter(n.Bounds)
		lv.movable[i] = c.movable[id]
		lv.rows[i], lv.columns[i] = -1, -1
		if g := c.req.Constraints.Grid; g != nil {
			if cell, ok := g.Cells[id]; ok {
				lv.rows[i], lv.columns[i] = cell.Row, cell.Column
			}
		}
	}
	for _, e := range c.req.Graph.Edges {
		u, v := c.lift(e.Source, parent), c.lift(e.Target, parent)
		if u == "" || v == "" || u == v {
			continue
		}
		lv.edges = append(lv.edges, levelEdge{id: e.ID, u: index[u], v: index[v]})
	}

	s := newSugiyama(lv, c.opts, c.iterations, c.req.Constraints.Incremental)
	if err := s.run(ctx); err != nil {
		return geom.Size{}, err
	}
	for i, id := range members {
		c.rel[id] = s.rects[i]
	}
	for i, e := range lv.edges {
		c.relBends[e.id] = s.bends[i]
		c.edgeLevel[e.id] = parent
	}
	return s.extent, nil
}

func (c *compound) crossCenter(r geom.Rect) float64 {
	if c.frame.dir.Horizontal() {
		return r.Y + r.Height/2
	}
	return r.X + r.Width/2
}

// place resolves relative rectangles to canonical absolute ones.
func (c *compound) place(parent string, origin geom.Point) {
	c.origin[parent] = origin
	for _, id := range c.children[parent] {
		r := c.rel[id].Translate(origin.X, origin.Y)
		c.abs[id] = r
		if c.nodes[id].Group {
			c.place(id, geom.Point{X: r.X + c.insets.Left, Y: r.Y + c.insets.Top})
		}
	}
}

// result maps the canonical geometry to the requested direction.
func (c *compound) result() graph.Layout {
	extent := 0.0
	for _, r := range c.abs {
		extent = max(extent, r.MaxY())
	}

	out := graph.NewLayout()
	for _, n := range c.req.Graph.Nodes {
		out.Nodes[n.ID] = c.frame.rect(c.abs[n.ID], extent)
	}
	for _, e := range c.req.Graph.Edges {
		rel := c.relBends[e.ID]
		if len(rel) == 0 {
			out.Edges[e.ID] = nil
			continue
		}
		o := c.origin[c.edgeLevel[e.ID]]
		pts := make([]geom.Point, len(rel))
		for i, p := range rel {
			pts[i] = c.frame.point(p.Add(o.X, o.Y), extent)
		}
		out.Edges[e.ID] = pts
	}
	return out
}
