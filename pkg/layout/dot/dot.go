package dot

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/supplychain/pkg/geom"
	"github.com/matzehuels/supplychain/pkg/graph"
	"github.com/matzehuels/supplychain/pkg/layout"
)

// Name is the algorithm name used in cache keys and metrics.
const Name = "dot"

// pointsPerInch converts between Graphviz inches and layout units.
const pointsPerInch = 72.0

// Algorithm lays out requests with Graphviz dot.
type Algorithm struct{}

// New returns the Graphviz algorithm.
func New() *Algorithm { return &Algorithm{} }

func (*Algorithm) Name() string { return Name }

// Layout renders req with Graphviz. The engine call is not interruptible;
// when ctx ends first the call is abandoned and its result discarded.
func (a *Algorithm) Layout(ctx context.Context, req layout.Request) (graph.Layout, error) {
	if len(req.Graph.Nodes) == 0 {
		return graph.NewLayout(), nil
	}
	opts := req.Options.WithDefaults()
	src, names := ToDOT(req.Graph, opts)

	type result struct {
		out []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := renderPlain(src)
		done <- result{out, err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return graph.Layout{}, context.Cause(ctx)
	case res = <-done:
	}
	if res.err != nil {
		return graph.Layout{}, res.err
	}

	p, err := parsePlain(res.out)
	if err != nil {
		return graph.Layout{}, err
	}
	return assemble(req.Graph, opts, p, names), nil
}

func renderPlain(src string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.Format("plain"), &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// =============================================================================
// DOT Generation
// =============================================================================

var rankdir = map[layout.Direction]string{
	layout.TopToBottom: "TB",
	layout.BottomToTop: "BT",
	layout.LeftToRight: "LR",
	layout.RightToLeft: "RL",
}

var splines = map[layout.Routing]string{
	layout.Orthogonal: "ortho",
	layout.Curved:     "spline",
	layout.Octilinear: "polyline",
	layout.Polyline:   "polyline",
}

// ToDOT converts g to DOT source. Nodes are renamed n0, n1, ... in graph
// order; the returned map resolves those names back to node ids.
func ToDOT(g graph.Graph, opts layout.Options) (string, map[string]string) {
	names := make(map[string]string, len(g.Nodes))
	ids := make(map[string]string, len(g.Nodes))
	children := make(map[string][]graph.Node)
	groups := make(map[string]bool)
	for i, n := range g.Nodes {
		name := fmt.Sprintf("n%d", i)
		names[name], ids[n.ID] = n.ID, name
		if n.Group {
			groups[n.ID] = true
		}
	}
	for _, n := range g.Nodes {
		p := n.Parent
		if !groups[p] {
			p = ""
		}
		children[p] = append(children[p], n)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir[opts.Direction])
	fmt.Fprintf(&buf, "  splines=%s;\n", splines[opts.Routing])
	fmt.Fprintf(&buf, "  ranksep=%s;\n", inches(opts.MinimumLayerDistance))
	fmt.Fprintf(&buf, "  nodesep=%s;\n", inches(opts.NodeDistance))
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n")

	var writeLevel func(parent, indent string)
	writeLevel = func(parent, indent string) {
		for _, n := range children[parent] {
			if groups[n.ID] {
				fmt.Fprintf(&buf, "%ssubgraph cluster_%s {\n", indent, ids[n.ID])
				writeLevel(n.ID, indent+"  ")
				fmt.Fprintf(&buf, "%s}\n", indent)
				continue
			}
			fmt.Fprintf(&buf, "%s%s [width=%s, height=%s];\n", indent, ids[n.ID],
				inches(n.Bounds.Width), inches(n.Bounds.Height))
		}
	}
	writeLevel("", "  ")

	buf.WriteString("\n")
	for _, e := range g.Edges {
		src, tgt := anchor(e.Source, children, groups), anchor(e.Target, children, groups)
		if src == "" || tgt == "" {
			continue
		}
		var attrs []string
		if groups[e.Source] {
			attrs = append(attrs, "ltail=cluster_"+ids[e.Source])
		}
		if groups[e.Target] {
			attrs = append(attrs, "lhead=cluster_"+ids[e.Target])
		}
		if len(attrs) > 0 {
			fmt.Fprintf(&buf, "  %s -> %s [%s];\n", ids[src], ids[tgt], strings.Join(attrs, ", "))
		} else {
			fmt.Fprintf(&buf, "  %s -> %s;\n", ids[src], ids[tgt])
		}
	}
	buf.WriteString("}\n")
	return buf.String(), names
}

// anchor returns the node an edge attaches to: id itself, or the first
// leaf inside an expanded group.
func anchor(id string, children map[string][]graph.Node, groups map[string]bool) string {
	for groups[id] {
		kids := children[id]
		if len(kids) == 0 {
			return ""
		}
		id = kids[0].ID
	}
	return id
}

func inches(v float64) string {
	return fmt.Sprintf("%.4f", v/pointsPerInch)
}

// =============================================================================
// Result Assembly
// =============================================================================

// assemble converts plain output to a layout. Parallel edges are matched
// in order of appearance.
func assemble(g graph.Graph, opts layout.Options, p plain, names map[string]string) graph.Layout {
	out := graph.NewLayout()
	flip := func(x, y float64) geom.Point {
		return geom.Point{X: x * pointsPerInch, Y: (p.height - y) * pointsPerInch}
	}

	for _, n := range p.nodes {
		id, ok := names[n.name]
		if !ok {
			continue
		}
		c := flip(n.x, n.y)
		out.Nodes[id] = geom.RectCentered(c, geom.Size{Width: n.width * pointsPerInch, Height: n.height * pointsPerInch})
	}
	groupBounds(g, opts.GroupInsets, out)

	seen := make(map[[2]string][]plainEdge)
	for _, e := range p.edges {
		key := [2]string{names[e.tail], names[e.head]}
		seen[key] = append(seen[key], e)
	}
	children := make(map[string][]graph.Node)
	groups := make(map[string]bool)
	for _, n := range g.Nodes {
		if n.Group {
			groups[n.ID] = true
		}
	}
	for _, n := range g.Nodes {
		if groups[n.Parent] {
			children[n.Parent] = append(children[n.Parent], n)
		} else {
			children[""] = append(children[""], n)
		}
	}
	for _, e := range g.Edges {
		key := [2]string{anchor(e.Source, children, groups), anchor(e.Target, children, groups)}
		queue := seen[key]
		if len(queue) == 0 {
			out.Edges[e.ID] = nil
			continue
		}
		pe := queue[0]
		seen[key] = queue[1:]
		if len(pe.points) <= 2 {
			out.Edges[e.ID] = nil
			continue
		}
		bends := make([]geom.Point, 0, len(pe.points)-2)
		for _, pt := range pe.points[1 : len(pe.points)-1] {
			bends = append(bends, flip(pt[0], pt[1]))
		}
		out.Edges[e.ID] = bends
	}
	return out
}

// groupBounds sizes every expanded group around its children, innermost
// groups first.
func groupBounds(g graph.Graph, insets geom.Insets, l graph.Layout) {
	idx := g.NodeIndex()
	depth := func(id string) int {
		d := 0
		for p := g.Nodes[idx[id]].Parent; p != ""; {
			d++
			i, ok := idx[p]
			if !ok {
				break
			}
			p = g.Nodes[i].Parent
		}
		return d
	}

	var groups []graph.Node
	for _, n := range g.Nodes {
		if n.Group {
			groups = append(groups, n)
		}
	}
	maxDepth := 0
	depths := make(map[string]int, len(groups))
	for _, n := range groups {
		depths[n.ID] = depth(n.ID)
		maxDepth = max(maxDepth, depths[n.ID])
	}
	for d := maxDepth; d >= 0; d-- {
		for _, grp := range groups {
			if depths[grp.ID] != d {
				continue
			}
			var rects []geom.Rect
			for _, n := range g.Nodes {
				if r, ok := l.Nodes[n.ID]; ok && n.Parent == grp.ID {
					rects = append(rects, r)
				}
			}
			if b, ok := geom.Bounds(rects...); ok {
				l.Nodes[grp.ID] = b.Outset(insets)
			}
		}
	}
}

// =============================================================================
// Plain Format
// =============================================================================

type plain struct {
	width, height float64
	nodes         []plainNode
	edges         []plainEdge
}

type plainNode struct {
	name                string
	x, y, width, height float64
}

type plainEdge struct {
	tail, head string
	points     [][2]float64
}

// parsePlain reads Graphviz "plain" output: a graph line, one line per node
// and edge, and a terminating stop line.
func parsePlain(data []byte) (plain, error) {
	var p plain
	for ln, line := range strings.Split(string(data), "\n") {
		f := fields(line)
		if len(f) == 0 {
			continue
		}
		bad := func() (plain, error) {
			return plain{}, fmt.Errorf("plain output line %d: malformed %s statement", ln+1, f[0])
		}
		switch f[0] {
		case "graph":
			if len(f) < 4 {
				return bad()
			}
			p.width, p.height = num(f[2]), num(f[3])
		case "node":
			if len(f) < 6 {
				return bad()
			}
			p.nodes = append(p.nodes, plainNode{
				name: f[1], x: num(f[2]), y: num(f[3]), width: num(f[4]), height: num(f[5]),
			})
		case "edge":
			if len(f) < 4 {
				return bad()
			}
			n := int(num(f[3]))
			if len(f) < 4+2*n {
				return bad()
			}
			e := plainEdge{tail: f[1], head: f[2], points: make([][2]float64, n)}
			for i := range n {
				e.points[i] = [2]float64{num(f[4+2*i]), num(f[5+2*i])}
			}
			p.edges = append(p.edges, e)
		case "stop":
			return p, nil
		}
	}
	return p, nil
}

// fields splits a plain line on spaces, honoring double-quoted strings.
func fields(line string) []string {
	var out []string
	var cur strings.Builder
	quoted, open := false, false
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			open = true
		case r == ' ' && !quoted:
			if open {
				out = append(out, cur.String())
				cur.Reset()
				open = false
			}
		default:
			cur.WriteRune(r)
			open = true
		}
	}
	if open {
		out = append(out, cur.String())
	}
	return out
}

func num(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0
	}
	return v
}

var _ layout.Algorithm = (*Algorithm)(nil)
