package dot

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/supplychain/pkg/geom"
	"github.com/matzehuels/supplychain/pkg/graph"
	"github.com/matzehuels/supplychain/pkg/layout"
)

func testGraph() graph.Graph {
	return graph.Graph{
		Nodes: []graph.Node{
			{ID: "a", Bounds: geom.Rect{Width: 144, Height: 72}},
			{ID: "G", Group: true},
			{ID: "b", Parent: "G", Bounds: geom.Rect{Width: 72, Height: 36}},
		},
		Edges: []graph.Edge{
			{ID: "e1", Source: "a", Target: "b"},
			{ID: "e2", Source: "a", Target: "G"},
		},
	}
}

func TestToDOT(t *testing.T) {
	opts := layout.DefaultOptions()
	src, names := ToDOT(testGraph(), opts)

	for _, want := range []string{
		"rankdir=LR;",
		"splines=ortho;",
		"subgraph cluster_n1 {",
		"n0 [width=2.0000, height=1.0000];",
		"n2 [width=1.0000, height=0.5000];",
		"n0 -> n2;",
		"n0 -> n2 [lhead=cluster_n1];",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("ToDOT() missing %q in:\n%s", want, src)
		}
	}
	if names["n0"] != "a" || names["n2"] != "b" {
		t.Errorf("names = %v", names)
	}
}

func TestParsePlain(t *testing.T) {
	out := []byte(`graph 1 3 2
node n0 1 1.5 2 1 "" solid box black lightgrey
node "n 1" 1 0.5 1 0.5 "" solid box black lightgrey
edge n0 "n 1" 4 1 1 1 0.9 1.2 0.8 1 0.75 solid black
stop
`)
	p, err := parsePlain(out)
	if err != nil {
		t.Fatalf("parsePlain() error = %v", err)
	}
	if p.width != 3 || p.height != 2 {
		t.Errorf("size = %vx%v, want 3x2", p.width, p.height)
	}
	if len(p.nodes) != 2 || p.nodes[1].name != "n 1" {
		t.Errorf("nodes = %+v", p.nodes)
	}
	if len(p.edges) != 1 || len(p.edges[0].points) != 4 || p.edges[0].head != "n 1" {
		t.Errorf("edges = %+v", p.edges)
	}
}

func TestParsePlainMalformed(t *testing.T) {
	if _, err := parsePlain([]byte("edge n0 n1 3 1 1\n")); err == nil {
		t.Error("parsePlain() error = nil, want error for truncated edge")
	}
}

func TestAssemble(t *testing.T) {
	g := testGraph()
	p := plain{
		width: 5, height: 2,
		nodes: []plainNode{
			{name: "n0", x: 1, y: 1, width: 2, height: 1},
			{name: "n2", x: 4, y: 1, width: 1, height: 0.5},
		},
		edges: []plainEdge{
			{tail: "n0", head: "n2", points: [][2]float64{{2, 1}, {2.5, 1}, {3, 1}, {3.5, 1}}},
		},
	}
	names := map[string]string{"n0": "a", "n1": "G", "n2": "b"}
	l := assemble(g, layout.DefaultOptions(), p, names)

	if got, want := l.Nodes["a"], (geom.Rect{X: 0, Y: 36, Width: 144, Height: 72}); got != want {
		t.Errorf("a = %v, want %v", got, want)
	}
	b := l.Nodes["b"]
	if got, want := l.Nodes["G"], b.Outset(layout.DefaultGroupInsets); got != want {
		t.Errorf("G = %v, want %v", got, want)
	}
	if len(l.Edges["e1"]) != 2 {
		t.Errorf("bends(e1) = %v, want the two interior points", l.Edges["e1"])
	}
	if l.Edges["e2"] != nil {
		t.Errorf("bends(e2) = %v, want nil without a matching spline", l.Edges["e2"])
	}
}

func TestLayout(t *testing.T) {
	g := graph.Graph{
		Nodes: []graph.Node{
			{ID: "a", Bounds: geom.Rect{Width: 100, Height: 40}},
			{ID: "b", Bounds: geom.Rect{Width: 100, Height: 40}},
		},
		Edges: []graph.Edge{{ID: "ab", Source: "a", Target: "b"}},
	}
	opts := layout.DefaultOptions()
	opts.Direction = layout.TopToBottom
	l, err := New().Layout(context.Background(), layout.Request{Graph: g, Options: opts})
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	a, b := l.Nodes["a"], l.Nodes["b"]
	if a.MaxY() > b.Y {
		t.Errorf("a %v should be above b %v", a, b)
	}
	if a.Width < 99 || a.Width > 101 {
		t.Errorf("a width = %v, want ~100", a.Width)
	}
}
