package render

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/supplychain/pkg/geom"
	"github.com/matzehuels/supplychain/pkg/style"
)

// Label geometry. Labels are sized from their text since no font metrics
// are available.
const (
	labelCharWidth = 7.0
	labelPadding   = 8.0
	labelHeight    = 22.0
	groupTitleSize = 50.0
)

// paletteColors back the background1..background16 classes.
var paletteColors = [style.PaletteSize]string{
	"#E3F2FD", "#E8F5E9", "#FFF3E0", "#F3E5F5",
	"#E0F7FA", "#FBE9E7", "#F1F8E9", "#EDE7F6",
	"#FFFDE7", "#E0F2F1", "#FCE4EC", "#E8EAF6",
	"#F9FBE7", "#EFEBE9", "#ECEFF1", "#FFF8E1",
}

const baseCSS = `
    .item rect.body { fill: #FFFFFF; stroke: #9E9E9E; stroke-width: 1; }
    .group rect.body { fill: #FAFAFA; stroke: #BDBDBD; stroke-width: 1; }
    .folder rect.body { fill: #F5F5F5; stroke: #757575; stroke-width: 1; stroke-dasharray: 6 3; }
    .search-hit rect.body { stroke: #FF9800; stroke-width: 3; }
    .highlighted rect.body { stroke: %[1]s; stroke-width: 3; }
    path.edge.highlighted { stroke: %[1]s; }
    text { font-family: Helvetica, Arial, sans-serif; font-size: 14px; fill: #212121; }
    .group-title { font-weight: bold; }
    .%[2]s { fill: #FFFFFF; stroke: #9E9E9E; }
    .%[2]s + text { font-size: 12px; }`

// SVGOptions control document framing.
type SVGOptions struct {
	// Zoom maps world units to document units. Zero means 1.
	Zoom float64

	// Margins pad the scene bounds on every side, in document units.
	Margins float64

	// Background fills the document. Empty leaves it transparent.
	Background string

	// Heat paints the heat overlay when the scene carries heat values.
	Heat bool
}

// RenderSVG writes s as a standalone SVG document.
func RenderSVG(s Scene, opts SVGOptions) []byte {
	zoom := opts.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	pad := opts.Margins / zoom
	box := s.Bounds.Outset(geom.Uniform(pad))
	w, h := box.Width*zoom, box.Height*zoom

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="%s %s %s %s" width="%s" height="%s">`+"\n",
		num(box.X), num(box.Y), num(box.Width), num(box.Height), num(w), num(h))

	markers := collectMarkers(s.Edges)
	renderDefs(&buf, markers, opts.Heat && s.HasHeat())
	if opts.Background != "" {
		fmt.Fprintf(&buf, `  <rect class="background" x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
			num(box.X), num(box.Y), num(box.Width), num(box.Height), attr(opts.Background))
	}
	if opts.Heat && s.HasHeat() {
		renderHeat(&buf, s)
	}

	// Groups and folders first, then edges, then leaves and labels on top.
	buf.WriteString(`  <g class="nodes">` + "\n")
	for _, n := range s.Nodes {
		if n.Group {
			renderNode(&buf, n)
		}
	}
	buf.WriteString("  </g>\n")
	buf.WriteString(`  <g class="edges">` + "\n")
	for _, e := range s.Edges {
		renderEdge(&buf, e, markers)
	}
	buf.WriteString("  </g>\n")
	buf.WriteString(`  <g class="items">` + "\n")
	for _, n := range s.Nodes {
		if !n.Group {
			renderNode(&buf, n)
		}
	}
	buf.WriteString("  </g>\n")
	buf.WriteString(`  <g class="labels">` + "\n")
	for _, e := range s.Edges {
		if e.Label != nil {
			renderLabel(&buf, *e.Label)
		}
	}
	buf.WriteString("  </g>\n")
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderDefs(buf *bytes.Buffer, markers *markerSet, heat bool) {
	buf.WriteString("  <defs>\n    <style>")
	fmt.Fprintf(buf, baseCSS, style.HighlightColor, strings.Fields(style.LabelFor("", "").ClassName)[0])
	for i, c := range paletteColors {
		fmt.Fprintf(buf, "\n    .background%d rect.body { fill: %s; }", i+1, c)
	}
	buf.WriteString("\n    </style>\n")
	for _, m := range markers.list {
		renderMarker(buf, m)
	}
	if heat {
		buf.WriteString(heatFilter)
	}
	buf.WriteString("  </defs>\n")
}

// =============================================================================
// Nodes
// =============================================================================

func renderNode(buf *bytes.Buffer, n Node) {
	classes := []string{"item"}
	switch {
	case n.Group:
		classes[0] = "group"
	case n.Folder:
		classes[0] = "folder"
	}
	for _, c := range []string{n.Background, n.ClassName} {
		if c != "" {
			classes = append(classes, c)
		}
	}
	if n.SearchHit {
		classes = append(classes, "search-hit")
	}
	if n.Highlighted {
		classes = append(classes, "highlighted")
	}

	b := n.Bounds
	fmt.Fprintf(buf, `    <g id="node-%s" class="%s">`+"\n", attr(n.ID), attr(strings.Join(classes, " ")))
	fmt.Fprintf(buf, `      <rect class="body" x="%s" y="%s" width="%s" height="%s" rx="4"/>`+"\n",
		num(b.X), num(b.Y), num(b.Width), num(b.Height))

	if n.Image != "" && !n.Group {
		side := min(b.Width, b.Height) - 16
		if side > 0 {
			fmt.Fprintf(buf, `      <image href="%s" x="%s" y="%s" width="%s" height="%s" preserveAspectRatio="xMidYMid meet"/>`+"\n",
				attr(n.Image), num(b.X+8), num(b.Y+(b.Height-side)/2), num(side), num(side))
		}
	}

	title := n.Name
	if title == "" {
		title = n.ID
	}
	switch {
	case n.Group:
		fmt.Fprintf(buf, `      <text class="group-title" x="%s" y="%s">%s</text>`+"\n",
			num(b.X+12), num(b.Y+groupTitleSize/2+5), html.EscapeString(title))
	default:
		c := b.Center()
		fmt.Fprintf(buf, `      <text x="%s" y="%s" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
			num(c.X), num(c.Y), html.EscapeString(title))
	}
	buf.WriteString("    </g>\n")
}

// =============================================================================
// Edges
// =============================================================================

func renderEdge(buf *bytes.Buffer, e Edge, markers *markerSet) {
	st := e.Style.Resolve()
	if st.IsHidden() || len(e.Points) < 2 {
		return
	}
	classes := "edge"
	if st.ClassName != "" {
		classes += " " + st.ClassName
	}
	if e.Folding {
		classes += " folding"
	}
	if e.Highlighted {
		classes += " highlighted"
	}
	fmt.Fprintf(buf, `    <path id="edge-%s" class="%s" d="%s" fill="none" stroke="%s" stroke-width="%s"`,
		attr(e.ID), attr(classes), pathData(e.Points, st), attr(st.Stroke), num(st.Thickness))
	if st.Dashed {
		fmt.Fprintf(buf, ` stroke-dasharray="%s %s"`, num(st.Thickness*3), num(st.Thickness*2))
	}
	if id := markers.id(st.SourceArrow); id != "" {
		fmt.Fprintf(buf, ` marker-start="url(#%s)"`, id)
	}
	if id := markers.id(st.TargetArrow); id != "" {
		fmt.Fprintf(buf, ` marker-end="url(#%s)"`, id)
	}
	buf.WriteString("/>\n")
}

// pathData builds the path for a polyline. Straight bends are rounded by
// the smoothing length; curved bends use Catmull-Rom splines.
func pathData(pts []geom.Point, st style.Edge) string {
	var b strings.Builder
	fmt.Fprintf(&b, "M%s %s", num(pts[0].X), num(pts[0].Y))
	if len(pts) == 2 {
		fmt.Fprintf(&b, " L%s %s", num(pts[1].X), num(pts[1].Y))
		return b.String()
	}

	if st.Bends == style.BendsCurved {
		for i := 0; i < len(pts)-1; i++ {
			p0 := pts[max(i-1, 0)]
			p1, p2 := pts[i], pts[i+1]
			p3 := pts[min(i+2, len(pts)-1)]
			c1 := geom.Point{X: p1.X + (p2.X-p0.X)/6, Y: p1.Y + (p2.Y-p0.Y)/6}
			c2 := geom.Point{X: p2.X - (p3.X-p1.X)/6, Y: p2.Y - (p3.Y-p1.Y)/6}
			fmt.Fprintf(&b, " C%s %s %s %s %s %s", num(c1.X), num(c1.Y), num(c2.X), num(c2.Y), num(p2.X), num(p2.Y))
		}
		return b.String()
	}

	for i := 1; i < len(pts)-1; i++ {
		prev, cur, next := pts[i-1], pts[i], pts[i+1]
		r := min(st.SmoothingLength, dist(prev, cur)/2, dist(cur, next)/2)
		if r <= 0 {
			fmt.Fprintf(&b, " L%s %s", num(cur.X), num(cur.Y))
			continue
		}
		in := cur.Lerp(prev, r/dist(prev, cur))
		out := cur.Lerp(next, r/dist(cur, next))
		fmt.Fprintf(&b, " L%s %s Q%s %s %s %s", num(in.X), num(in.Y), num(cur.X), num(cur.Y), num(out.X), num(out.Y))
	}
	last := pts[len(pts)-1]
	fmt.Fprintf(&b, " L%s %s", num(last.X), num(last.Y))
	return b.String()
}

// markerSet deduplicates arrow markers by type and color.
type markerSet struct {
	ids  map[style.Arrow]string
	list []marker
}

type marker struct {
	id    string
	arrow style.Arrow
}

func collectMarkers(edges []Edge) *markerSet {
	m := &markerSet{ids: make(map[style.Arrow]string)}
	for _, e := range edges {
		st := e.Style.Resolve()
		if st.IsHidden() {
			continue
		}
		m.add(st.SourceArrow)
		m.add(st.TargetArrow)
	}
	return m
}

func (m *markerSet) add(a style.Arrow) {
	if a.Type == style.ArrowNone || a.Type == "" {
		return
	}
	if _, ok := m.ids[a]; ok {
		return
	}
	id := "arrow-" + string(a.Type) + "-" + strconv.Itoa(len(m.list))
	m.ids[a] = id
	m.list = append(m.list, marker{id: id, arrow: a})
}

func (m *markerSet) id(a style.Arrow) string { return m.ids[a] }

func renderMarker(buf *bytes.Buffer, m marker) {
	fmt.Fprintf(buf, `    <marker id="%s" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse">`, m.id)
	color := attr(m.arrow.Color)
	switch m.arrow.Type {
	case style.ArrowDiamond:
		fmt.Fprintf(buf, `<path d="M0 5 L5 0 L10 5 L5 10 Z" fill="%s"/>`, color)
	case style.ArrowCircle:
		fmt.Fprintf(buf, `<circle cx="5" cy="5" r="4" fill="%s"/>`, color)
	default:
		fmt.Fprintf(buf, `<path d="M0 0 L10 5 L0 10 Z" fill="%s"/>`, color)
	}
	buf.WriteString("</marker>\n")
}

// =============================================================================
// Labels
// =============================================================================

func renderLabel(buf *bytes.Buffer, l Label) {
	w := float64(len([]rune(l.Text)))*labelCharWidth + 2*labelPadding
	r := geom.RectCentered(l.Position, geom.Size{Width: w, Height: labelHeight})
	fmt.Fprintf(buf, `    <g class="label">`+"\n      ")
	class := attr(l.Style.ClassName)
	switch l.Style.Shape {
	case style.ShapeHexagon:
		d := labelHeight / 2
		fmt.Fprintf(buf, `<polygon class="%s" points="%s,%s %s,%s %s,%s %s,%s %s,%s %s,%s"/>`, class,
			num(r.X), num(r.Y+d),
			num(r.X+d), num(r.Y),
			num(r.MaxX()-d), num(r.Y),
			num(r.MaxX()), num(r.Y+d),
			num(r.MaxX()-d), num(r.MaxY()),
			num(r.X+d), num(r.MaxY()))
	default:
		rx := 4.0
		switch l.Style.Shape {
		case style.ShapePill:
			rx = labelHeight / 2
		case style.ShapeRectangle:
			rx = 0
		}
		fmt.Fprintf(buf, `<rect class="%s" x="%s" y="%s" width="%s" height="%s" rx="%s"/>`, class,
			num(r.X), num(r.Y), num(r.Width), num(r.Height), num(rx))
	}
	fmt.Fprintf(buf, "\n      "+`<text x="%s" y="%s" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
		num(l.Position.X), num(l.Position.Y), html.EscapeString(l.Text))
	buf.WriteString("    </g>\n")
}

// =============================================================================
// Formatting
// =============================================================================

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func attr(s string) string { return html.EscapeString(s) }
