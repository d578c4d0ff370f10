package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/dag"
	pkgerrors "github.com/matzehuels/supplychain/pkg/errors"
	"github.com/matzehuels/supplychain/pkg/fold"
	"github.com/matzehuels/supplychain/pkg/geom"
	"github.com/matzehuels/supplychain/pkg/highlight"
	"github.com/matzehuels/supplychain/pkg/store"
	"github.com/matzehuels/supplychain/pkg/style"
)

// plant builds a group "g" holding "a", plus a root item "b", with a->b.
func plant(t *testing.T) *fold.View {
	t.Helper()
	s := store.New(dag.New(), store.Options{})
	s.Load(context.Background(), chain.Data{
		Items: []*chain.Item{
			{ID: "g", Name: "Plant"},
			{ID: "a", Name: "Ore", ParentID: "g", Fields: map[string]any{"image": "data:image/svg+xml;base64,PHN2Zy8+"}},
			{ID: "b", Name: "Steel & Co"},
		},
		Connections: []*chain.Connection{{SourceID: "a", TargetID: "b"}},
	})
	v := fold.New(s.Graph(), fold.Options{Styler: s})
	v.SetNodeLayout("a", geom.Rect{X: 15, Y: 50, Width: 100, Height: 50})
	v.SetNodeLayout("g", geom.Rect{X: 0, Y: 0, Width: 130, Height: 115})
	v.SetNodeLayout("b", geom.Rect{X: 300, Y: 50, Width: 100, Height: 50})
	return v
}

func TestPort(t *testing.T) {
	r := geom.Rect{X: 0, Y: 0, Width: 100, Height: 50}
	tests := []struct {
		name string
		p    geom.Point
		want geom.Point
	}{
		{"right", geom.Point{X: 200, Y: 25}, geom.Point{X: 100, Y: 25}},
		{"below", geom.Point{X: 50, Y: 200}, geom.Point{X: 50, Y: 50}},
		{"diagonal", geom.Point{X: 150, Y: 125}, geom.Point{X: 100, Y: 50}},
		{"inside", geom.Point{X: 60, Y: 30}, geom.Point{X: 50, Y: 25}},
		{"center", geom.Point{X: 50, Y: 25}, geom.Point{X: 50, Y: 25}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := port(r, tt.p); got != tt.want {
				t.Errorf("port() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMidpoint(t *testing.T) {
	pts := []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 30}}
	if got, want := midpoint(pts), (geom.Point{X: 10, Y: 10}); got != want {
		t.Errorf("midpoint() = %v, want %v", got, want)
	}
	if got := midpoint(nil); got != (geom.Point{}) {
		t.Errorf("midpoint(nil) = %v, want zero", got)
	}
}

func TestCapture(t *testing.T) {
	v := plant(t)
	hl := highlight.New()
	hl.HighlightNeighborhood(v, "b")

	s := Capture(v, Decorations{
		Palette:   style.NewPalette(),
		Highlight: hl,
		Hits:      map[chain.ItemID]bool{"a": true},
		Heat: chain.HeatFunc(func(ref chain.Ref, _ chain.Inspector) float64 {
			if ref.Kind == chain.KindItem && ref.Item.ID == "b" {
				return 3
			}
			return 0
		}),
	})

	var ids []string
	for _, n := range s.Nodes {
		ids = append(ids, n.ID)
	}
	if got := strings.Join(ids, ","); got != "g,a,b" {
		t.Errorf("node order = %s, want g,a,b", got)
	}

	a, _ := s.Node("a")
	if a.Background != "background1" || !a.SearchHit || !a.Highlighted || a.Depth != 1 {
		t.Errorf("node a = %+v", a)
	}
	if a.Image == "" {
		t.Error("node a lost its image")
	}
	g, _ := s.Node("g")
	if !g.Group || g.Background != "" {
		t.Errorf("node g = %+v, want uncolored group", g)
	}
	b, _ := s.Node("b")
	if b.Heat != 1 {
		t.Errorf("node b heat = %v, want clamped 1", b.Heat)
	}

	if len(s.Edges) != 1 {
		t.Fatalf("len(Edges) = %d, want 1", len(s.Edges))
	}
	e := s.Edges[0]
	want := []geom.Point{{X: 115, Y: 75}, {X: 300, Y: 75}}
	if len(e.Points) != 2 || e.Points[0] != want[0] || e.Points[1] != want[1] {
		t.Errorf("edge points = %v, want %v", e.Points, want)
	}
	if !e.Highlighted {
		t.Error("edge not highlighted")
	}
	if s.Bounds != (geom.Rect{X: 0, Y: 0, Width: 400, Height: 115}) {
		t.Errorf("Bounds = %v", s.Bounds)
	}
}

func TestCaptureFolder(t *testing.T) {
	v := plant(t)
	v.Collapse("g")

	s := Capture(v, Decorations{})
	if len(s.Nodes) != 2 {
		t.Fatalf("len(Nodes) = %d, want 2", len(s.Nodes))
	}
	g, ok := s.Node("g")
	if !ok || !g.Folder || g.Group {
		t.Errorf("node g = %+v, want folder", g)
	}
	if len(s.Edges) != 1 || !s.Edges[0].Folding {
		t.Errorf("edges = %+v, want one folding edge", s.Edges)
	}
}

func TestRenderSVG(t *testing.T) {
	v := plant(t)
	hl := highlight.New()
	hl.HighlightNeighborhood(v, "b")
	s := Capture(v, Decorations{Palette: style.NewPalette(), Highlight: hl})

	svg := string(RenderSVG(s, SVGOptions{Zoom: 2, Margins: 10, Background: style.BackgroundColor}))

	for _, want := range []string{
		`viewBox="-5 -5 410 125" width="820" height="250"`,
		`class="background" x="-5"`,
		`id="node-a" class="item background1 highlighted"`,
		`id="node-g" class="group"`,
		`Steel &amp; Co`,
		`marker-end="url(#arrow-triangle-0)"`,
		`.background16 rect.body`,
		`class="edge highlighted"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("RenderSVG() missing %q", want)
		}
	}
	if strings.Contains(svg, "heatmap") {
		t.Error("RenderSVG() painted heat without heat values")
	}
	if strings.Index(svg, `id="node-g"`) > strings.Index(svg, `id="edge-`) {
		t.Error("group painted above edges")
	}
}

func TestRenderSVGHeat(t *testing.T) {
	s := Scene{
		Bounds: geom.Rect{Width: 100, Height: 50},
		Nodes:  []Node{{ID: "x", Bounds: geom.Rect{Width: 100, Height: 50}, Heat: 0.5}},
	}
	svg := string(RenderSVG(s, SVGOptions{Heat: true}))
	for _, want := range []string{
		`<filter id="heatmap"`,
		`filter="url(#heatmap)"`,
		`x="-20" y="-20" width="140" height="90" fill="rgba(255,255,255,0.5)"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("RenderSVG() missing %q", want)
		}
	}
	if svg := string(RenderSVG(s, SVGOptions{})); strings.Contains(svg, "heatmap") {
		t.Error("heat painted while disabled")
	}
}

func TestRenderSVGHiddenEdge(t *testing.T) {
	s := Scene{Edges: []Edge{{
		ID:     "e1",
		Points: []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}},
		Style:  style.DefaultEdge().Hidden(),
	}}}
	if svg := string(RenderSVG(s, SVGOptions{})); strings.Contains(svg, "edge-e1") {
		t.Error("hidden edge painted")
	}
}

func TestPathData(t *testing.T) {
	straight := style.DefaultEdge()
	curved := straight
	curved.Bends = style.BendsCurved

	tests := []struct {
		name string
		pts  []geom.Point
		st   style.Edge
		want string
	}{
		{"segment", []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}, straight, "M0 0 L10 0"},
		{"rounded", []geom.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}}, straight, "M0 0 L90 0 Q100 0 100 10 L100 100"},
		{"short legs", []geom.Point{{X: 0, Y: 0}, {X: 8, Y: 0}, {X: 8, Y: 8}}, straight, "M0 0 L4 0 Q8 0 8 4 L8 8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pathData(tt.pts, tt.st); got != tt.want {
				t.Errorf("pathData() = %q, want %q", got, tt.want)
			}
		})
	}

	got := pathData([]geom.Point{{X: 0, Y: 0}, {X: 50, Y: 50}, {X: 100, Y: 0}}, curved)
	if strings.Count(got, "C") != 2 || !strings.HasSuffix(got, "100 0") {
		t.Errorf("curved pathData() = %q", got)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"svg", FormatSVG, false},
		{".PNG", FormatPNG, false},
		{"pdf", FormatPDF, false},
		{"gif", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if got != tt.want || (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) = %q, %v, want %q, wantErr %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestDefaultSettings(t *testing.T) {
	e := DefaultExportSettings(1.5)
	if e.Zoom != 1.5 || e.Scale != 1.5 || e.Margins != 5 || !e.InlineImages || e.Background != "rgb(238,238,238)" {
		t.Errorf("DefaultExportSettings() = %+v", e)
	}
	p := DefaultPrintSettings(1.5)
	if p.Zoom != 1.5 || p.Scale != 1 || p.Margins != 5 {
		t.Errorf("DefaultPrintSettings() = %+v", p)
	}
}

func TestExportInlinesImages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.svg")
	if err := os.WriteFile(path, []byte("<svg/>"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := Scene{
		Bounds: geom.Rect{Width: 100, Height: 100},
		Nodes:  []Node{{ID: "x", Image: path, Bounds: geom.Rect{Width: 100, Height: 100}}},
	}

	out, err := Export(context.Background(), s, FormatSVG, DefaultExportSettings(1))
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if !strings.Contains(string(out), `href="data:image/svg+xml;base64,PHN2Zy8+"`) {
		t.Errorf("Export() did not inline image:\n%s", out)
	}
	if s.Nodes[0].Image != path {
		t.Error("Export() modified the input scene")
	}
}

func TestExportInlineFailure(t *testing.T) {
	s := Scene{Nodes: []Node{{ID: "x", Image: filepath.Join(t.TempDir(), "missing.png")}}}
	_, err := Export(context.Background(), s, FormatSVG, DefaultExportSettings(1))
	if !pkgerrors.Is(err, pkgerrors.ErrCodeExport) {
		t.Errorf("Export() error = %v, want export failure", err)
	}

	settings := DefaultExportSettings(1)
	settings.InlineImages = false
	if _, err := Export(context.Background(), s, FormatSVG, settings); err != nil {
		t.Errorf("Export() without inlining error = %v", err)
	}
}

func TestPrint(t *testing.T) {
	s := Scene{Bounds: geom.Rect{Width: 10, Height: 10}}
	if err := Print(context.Background(), s, nil, DefaultPrintSettings(1)); !pkgerrors.IsContract(err) {
		t.Errorf("Print(nil printer) error = %v, want contract violation", err)
	}

	var got PrintSettings
	var doc []byte
	p := PrinterFunc(func(_ context.Context, svg []byte, ps PrintSettings) error {
		doc, got = svg, ps
		return nil
	})
	if err := Print(context.Background(), s, p, DefaultPrintSettings(2)); err != nil {
		t.Fatalf("Print() error: %v", err)
	}
	if got.Scale != 1 || !strings.HasPrefix(string(doc), "<svg") {
		t.Errorf("printer got settings %+v, doc %q", got, doc)
	}

	boom := errors.New("offline")
	p = func(context.Context, []byte, PrintSettings) error { return boom }
	if err := Print(context.Background(), s, p, DefaultPrintSettings(1)); !errors.Is(err, boom) {
		t.Errorf("Print() error = %v, want %v", err, boom)
	}
}

func TestConvertMissingTool(t *testing.T) {
	old := converter
	converter = "supplychain-no-such-converter"
	defer func() { converter = old }()

	if _, err := ToPNG(context.Background(), []byte("<svg/>"), 1); !errors.Is(err, ErrConverterMissing) {
		t.Errorf("ToPNG() error = %v, want ErrConverterMissing", err)
	}
	_, err := Export(context.Background(), Scene{}, FormatPDF, ExportSettings{})
	if !pkgerrors.Is(err, pkgerrors.ErrCodeExport) || !errors.Is(err, ErrConverterMissing) {
		t.Errorf("Export(pdf) error = %v, want export failure wrapping ErrConverterMissing", err)
	}
}
