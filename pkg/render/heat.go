package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/supplychain/pkg/geom"
)

// Heat overlay geometry in world units.
const (
	HeatScale   = 0.5
	HeatPadding = 20.0
)

// heatFilter blurs the overlay, turns its alpha into intensity, and maps the
// intensity through a transparent-green-yellow-red ramp.
const heatFilter = `    <filter id="heatmap" x="-20%" y="-20%" width="140%" height="140%">
      <feGaussianBlur stdDeviation="16"/>
      <feColorMatrix type="matrix" values="0 0 0 1 0  0 0 0 1 0  0 0 0 1 0  0 0 0 1 0"/>
      <feComponentTransfer>
        <feFuncR type="table" tableValues="0 0 0 0 1 1"/>
        <feFuncG type="table" tableValues="0 0 1 1 1 0"/>
        <feFuncB type="table" tableValues="0.5 1 0 0 0"/>
        <feFuncA type="table" tableValues="0 0.6 0.7 0.8 0.9"/>
      </feComponentTransfer>
    </filter>
`

func renderHeat(buf *bytes.Buffer, s Scene) {
	buf.WriteString(`  <g class="heat" filter="url(#heatmap)">` + "\n")
	for _, n := range s.Nodes {
		if n.Heat <= 0 {
			continue
		}
		r := n.Bounds.Outset(geom.Uniform(HeatPadding))
		fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="%s" height="%s" fill="rgba(255,255,255,%s)"/>`+"\n",
			num(r.X), num(r.Y), num(r.Width), num(r.Height), num(n.Heat))
	}
	for _, e := range s.Edges {
		if e.Heat <= 0 || len(e.Points) < 2 {
			continue
		}
		fmt.Fprintf(buf, `    <polyline points="%s" fill="none" stroke="rgba(255,255,255,%s)" stroke-width="%s" stroke-linecap="square"/>`+"\n",
			pointList(e.Points), num(e.Heat), num(e.Heat*100*HeatScale))
	}
	buf.WriteString("  </g>\n")
}

func pointList(pts []geom.Point) string {
	var b bytes.Buffer
	for i, p := range pts {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(num(p.X))
		b.WriteByte(',')
		b.WriteString(num(p.Y))
	}
	return b.String()
}
