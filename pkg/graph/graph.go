package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/supplychain/pkg/cache"
	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/fold"
	"github.com/matzehuels/supplychain/pkg/geom"
)

// =============================================================================
// Graph - View Graph Description
// =============================================================================

// Graph describes a view graph for layout.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is a view node. Group is set for expanded groups with visible
// children; their bounds are computed from the children.
type Node struct {
	ID     string    `json:"id" bson:"id"`
	Parent string    `json:"parent,omitempty" bson:"parent,omitempty"`
	Group  bool      `json:"group,omitempty" bson:"group,omitempty"`
	Bounds geom.Rect `json:"bounds" bson:"bounds"`
}

// Edge is a directed view edge.
type Edge struct {
	ID     string       `json:"id" bson:"id"`
	Source string       `json:"source" bson:"source"`
	Target string       `json:"target" bson:"target"`
	Bends  []geom.Point `json:"bends,omitempty" bson:"bends,omitempty"`
}

// FromView captures the current view graph.
func FromView(v *fold.View) Graph {
	nodes := v.Nodes()
	edges := v.Edges()
	out := Graph{
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, len(edges)),
	}
	for i, n := range nodes {
		out.Nodes[i] = Node{
			ID:     string(n.ID),
			Parent: string(n.Parent),
			Group:  n.IsExpandedGroup() && len(v.Children(n.ID)) > 0,
			Bounds: v.NodeLayout(n.ID),
		}
	}
	for i, e := range edges {
		out.Edges[i] = Edge{
			ID:     string(e.ID),
			Source: string(e.Source),
			Target: string(e.Target),
			Bends:  clonePoints(v.EdgeBends(e.ID)),
		}
	}
	return out
}

// NodeIndex maps node ids to their position in g.Nodes.
func (g Graph) NodeIndex() map[string]int {
	idx := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		idx[n.ID] = i
	}
	return idx
}

// Children returns the ids of the nodes grouped directly under parent.
// Pass "" for the top level.
func (g Graph) Children(parent string) []string {
	var out []string
	for _, n := range g.Nodes {
		if n.Parent == parent {
			out = append(out, n.ID)
		}
	}
	return out
}

// Hash returns a content hash of g, used as a cache key component.
func (g Graph) Hash() string {
	h, _ := cache.HashJSON(g)
	return h
}

// Layout returns the geometry currently recorded in g.
func (g Graph) Layout() Layout {
	l := NewLayout()
	for _, n := range g.Nodes {
		l.Nodes[n.ID] = n.Bounds
	}
	for _, e := range g.Edges {
		l.Edges[e.ID] = clonePoints(e.Bends)
	}
	return l
}

// =============================================================================
// Layout - Computed Geometry
// =============================================================================

// Layout is computed geometry keyed by node and edge id.
type Layout struct {
	Nodes map[string]geom.Rect    `json:"nodes" bson:"nodes"`
	Edges map[string][]geom.Point `json:"edges" bson:"edges"`
}

// NewLayout returns an empty layout.
func NewLayout() Layout {
	return Layout{
		Nodes: make(map[string]geom.Rect),
		Edges: make(map[string][]geom.Point),
	}
}

// Bounds returns the union of all node rectangles and bend points.
func (l Layout) Bounds() (geom.Rect, bool) {
	rects := make([]geom.Rect, 0, len(l.Nodes)+len(l.Edges))
	for _, r := range l.Nodes {
		rects = append(rects, r)
	}
	for _, pts := range l.Edges {
		if r, ok := geom.PointBounds(pts); ok {
			rects = append(rects, r)
		}
	}
	return geom.Bounds(rects...)
}

// Translate shifts every rectangle and bend point.
func (l Layout) Translate(dx, dy float64) Layout {
	out := NewLayout()
	for id, r := range l.Nodes {
		out.Nodes[id] = r.Translate(dx, dy)
	}
	for id, pts := range l.Edges {
		moved := make([]geom.Point, len(pts))
		for i, p := range pts {
			moved[i] = p.Add(dx, dy)
		}
		out.Edges[id] = moved
	}
	return out
}

// Capture snapshots the current geometry of every view node and edge.
func Capture(v *fold.View) Layout {
	return FromView(v).Layout()
}

// Apply writes l into the view. Ids the view does not know are ignored.
func Apply(v *fold.View, l Layout) {
	for id, r := range l.Nodes {
		v.SetNodeLayout(chain.ItemID(id), r)
	}
	for id, pts := range l.Edges {
		v.SetEdgeBends(fold.EdgeID(id), clonePoints(pts))
	}
}

// Interpolate blends from into to at t in [0, 1]. Nodes missing from from
// start at their target; bends with differing point counts jump to the
// target.
func Interpolate(from, to Layout, t float64) Layout {
	out := NewLayout()
	for id, r := range to.Nodes {
		if f, ok := from.Nodes[id]; ok {
			r = f.Lerp(r, t)
		}
		out.Nodes[id] = r
	}
	for id, pts := range to.Edges {
		f := from.Edges[id]
		if len(f) != len(pts) {
			out.Edges[id] = clonePoints(pts)
			continue
		}
		blended := make([]geom.Point, len(pts))
		for i := range pts {
			blended[i] = f[i].Lerp(pts[i], t)
		}
		out.Edges[id] = blended
	}
	return out
}

func clonePoints(pts []geom.Point) []geom.Point {
	if pts == nil {
		return nil
	}
	return append([]geom.Point(nil), pts...)
}

// =============================================================================
// Serialization API
// =============================================================================

// MarshalGraph converts a Graph to JSON bytes.
func MarshalGraph(g Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// MarshalLayout converts a Layout to JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.Marshal(l)
}

// UnmarshalLayout deserializes JSON bytes to a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	l := NewLayout()
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTo(l, f)
}

// ReadLayoutFile reads a JSON layout file.
func ReadLayoutFile(path string) (Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return Layout{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadLayout(f)
}

// ReadLayout decodes a JSON layout from an io.Reader.
func ReadLayout(r io.Reader) (Layout, error) {
	l := NewLayout()
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return Layout{}, fmt.Errorf("decode: %w", err)
	}
	return l, nil
}

func writeTo(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
