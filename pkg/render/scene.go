package render

import (
	"math"

	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/fold"
	"github.com/matzehuels/supplychain/pkg/geom"
	"github.com/matzehuels/supplychain/pkg/highlight"
	"github.com/matzehuels/supplychain/pkg/style"
)

// ImageField is the item field holding an image reference (URL, path or
// data URI) drawn inside the item.
const ImageField = "image"

// Scene is a snapshot of everything visible in a diagram.
type Scene struct {
	Bounds geom.Rect `json:"bounds"`
	Nodes  []Node    `json:"nodes"`
	Edges  []Edge    `json:"edges"`
}

// Node is a visible item, expanded group, or folder.
type Node struct {
	ID          string    `json:"id"`
	Parent      string    `json:"parent,omitempty"`
	Name        string    `json:"name,omitempty"`
	ClassName   string    `json:"className,omitempty"`
	Background  string    `json:"background,omitempty"`
	Image       string    `json:"image,omitempty"`
	Bounds      geom.Rect `json:"bounds"`
	Group       bool      `json:"group,omitempty"`
	Folder      bool      `json:"folder,omitempty"`
	Depth       int       `json:"depth"`
	Highlighted bool      `json:"highlighted,omitempty"`
	SearchHit   bool      `json:"searchHit,omitempty"`
	Heat        float64   `json:"heat,omitempty"`
}

// Edge is a visible connection or folding connection. Points run from the
// source port through the bends to the target port.
type Edge struct {
	ID          string       `json:"id"`
	Source      string       `json:"source"`
	Target      string       `json:"target"`
	Folding     bool         `json:"folding,omitempty"`
	Points      []geom.Point `json:"points"`
	Style       style.Edge   `json:"style"`
	Label       *Label       `json:"label,omitempty"`
	Highlighted bool         `json:"highlighted,omitempty"`
	Heat        float64      `json:"heat,omitempty"`
}

// Label is a connection label anchored at the middle of its edge.
type Label struct {
	Text     string      `json:"text"`
	Style    style.Label `json:"style"`
	Position geom.Point  `json:"position"`
}

// HasHeat reports whether any node or edge carries heat.
func (s Scene) HasHeat() bool {
	for _, n := range s.Nodes {
		if n.Heat > 0 {
			return true
		}
	}
	for _, e := range s.Edges {
		if e.Heat > 0 {
			return true
		}
	}
	return false
}

// Node returns the node with the given id.
func (s Scene) Node(id string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// =============================================================================
// Capture
// =============================================================================

// Decorations supply the per-diagram state a scene records beyond geometry.
// Every field is optional.
type Decorations struct {
	Palette   *style.Palette
	Highlight *highlight.Manager
	Hits      map[chain.ItemID]bool
	Heat      chain.HeatFunction
	Inspector chain.Inspector
}

// Capture snapshots the view graph. Expanded groups are listed before their
// children so painting in order layers children on top.
func Capture(v *fold.View, d Decorations) Scene {
	var s Scene
	depth := make(map[chain.ItemID]int)
	rects := make(map[chain.ItemID]geom.Rect)

	var visit func(parent chain.ItemID, level int)
	visit = func(parent chain.ItemID, level int) {
		for _, id := range v.Children(parent) {
			n := v.ViewNode(id)
			depth[id] = level
			rects[id] = v.NodeLayout(id)
			s.Nodes = append(s.Nodes, captureNode(v, n, level, d))
			visit(id, level+1)
		}
	}
	visit("", 0)

	for _, e := range v.Edges() {
		pts := edgePoints(rects[e.Source], rects[e.Target], v.EdgeBends(e.ID))
		out := Edge{
			ID:      string(e.ID),
			Source:  string(e.Source),
			Target:  string(e.Target),
			Folding: e.Folding != nil,
			Points:  pts,
			Style:   e.Style,
		}
		if e.Label != nil && !e.Label.Style.Hidden && e.Label.Text != "" {
			out.Label = &Label{Text: e.Label.Text, Style: e.Label.Style, Position: midpoint(pts)}
		}
		if d.Highlight != nil {
			out.Highlighted = d.Highlight.IsEdgeHighlighted(e.ID)
		}
		if d.Heat != nil {
			out.Heat = clampHeat(d.Heat.Heat(e.Ref(), d.Inspector))
		}
		s.Edges = append(s.Edges, out)
	}

	var all []geom.Rect
	for _, r := range rects {
		all = append(all, r)
	}
	for _, e := range s.Edges {
		if r, ok := geom.PointBounds(e.Points); ok {
			all = append(all, r)
		}
	}
	s.Bounds, _ = geom.Bounds(all...)
	return s
}

func captureNode(v *fold.View, n *fold.Node, level int, d Decorations) Node {
	out := Node{
		ID:     string(n.ID),
		Parent: string(n.Parent),
		Bounds: v.NodeLayout(n.ID),
		Group:  n.IsExpandedGroup(),
		Folder: n.Folder,
		Depth:  level,
	}
	if it := n.Item; it != nil {
		out.Name = it.Name
		out.ClassName = it.ClassName
		if img, ok := it.Field(ImageField); ok {
			out.Image, _ = img.(string)
		}
	}
	if d.Palette != nil {
		out.Background = d.Palette.Class(string(n.Parent))
	}
	if d.Highlight != nil {
		out.Highlighted = d.Highlight.IsNodeHighlighted(n.ID)
	}
	if d.Hits != nil {
		out.SearchHit = d.Hits[n.ID]
	}
	if d.Heat != nil && n.Item != nil {
		out.Heat = clampHeat(d.Heat.Heat(chain.ItemRef(n.Item), d.Inspector))
	}
	return out
}

func clampHeat(h float64) float64 {
	if math.IsNaN(h) {
		return 0
	}
	return min(max(h, 0), 1)
}

// =============================================================================
// Ports
// =============================================================================

// edgePoints clips the straight segments leaving the source and entering
// the target at the node borders.
func edgePoints(src, tgt geom.Rect, bends []geom.Point) []geom.Point {
	first, last := tgt.Center(), src.Center()
	if len(bends) > 0 {
		first, last = bends[0], bends[len(bends)-1]
	}
	pts := make([]geom.Point, 0, len(bends)+2)
	pts = append(pts, port(src, first))
	pts = append(pts, bends...)
	pts = append(pts, port(tgt, last))
	return pts
}

// port returns where the segment from the center of r toward p leaves r.
// Points inside r, or a degenerate r, yield the center.
func port(r geom.Rect, p geom.Point) geom.Point {
	c := r.Center()
	dx, dy := p.X-c.X, p.Y-c.Y
	if dx == 0 && dy == 0 {
		return c
	}
	t := math.Inf(1)
	if dx != 0 {
		t = min(t, r.Width/2/math.Abs(dx))
	}
	if dy != 0 {
		t = min(t, r.Height/2/math.Abs(dy))
	}
	if t >= 1 {
		return c
	}
	return geom.Point{X: c.X + dx*t, Y: c.Y + dy*t}
}

// midpoint returns the point halfway along a polyline.
func midpoint(pts []geom.Point) geom.Point {
	if len(pts) == 0 {
		return geom.Point{}
	}
	total := 0.0
	for i := 1; i < len(pts); i++ {
		total += dist(pts[i-1], pts[i])
	}
	half := total / 2
	for i := 1; i < len(pts); i++ {
		d := dist(pts[i-1], pts[i])
		if d > 0 && half <= d {
			return pts[i-1].Lerp(pts[i], half/d)
		}
		half -= d
	}
	return pts[len(pts)-1]
}

func dist(a, b geom.Point) float64 { return math.Hypot(b.X-a.X, b.Y-a.Y) }
