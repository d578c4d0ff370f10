package layered

import (
	"github.com/matzehuels/supplychain/pkg/geom"
	"github.com/matzehuels/supplychain/pkg/layout"
)

// frame maps between screen space and the canonical top-to-bottom space
// where layers run along y and the order within a layer along x.
type frame struct {
	dir layout.Direction
}

// size converts a screen size to canonical (cross, layer) extents.
func (f frame) size(s geom.Size) geom.Size {
	if f.dir.Horizontal() {
		return geom.Size{Width: s.Height, Height: s.Width}
	}
	return s
}

// insets converts screen insets to canonical insets. Top is the start of
// the layer axis, Left the start of the cross axis.
func (f frame) insets(i geom.Insets) geom.Insets {
	switch f.dir {
	case layout.BottomToTop:
		return geom.Insets{Top: i.Bottom, Right: i.Right, Bottom: i.Top, Left: i.Left}
	case layout.LeftToRight:
		return geom.Insets{Top: i.Left, Right: i.Bottom, Bottom: i.Right, Left: i.Top}
	case layout.RightToLeft:
		return geom.Insets{Top: i.Right, Right: i.Bottom, Bottom: i.Left, Left: i.Top}
	default:
		return i
	}
}

// rect maps a canonical rectangle back to screen space. extent is the total
// canonical layer extent, needed to mirror reversed directions.
func (f frame) rect(r geom.Rect, extent float64) geom.Rect {
	switch f.dir {
	case layout.BottomToTop:
		return geom.Rect{X: r.X, Y: extent - r.Y - r.Height, Width: r.Width, Height: r.Height}
	case layout.LeftToRight:
		return geom.Rect{X: r.Y, Y: r.X, Width: r.Height, Height: r.Width}
	case layout.RightToLeft:
		return geom.Rect{X: extent - r.Y - r.Height, Y: r.X, Width: r.Height, Height: r.Width}
	default:
		return r
	}
}

func (f frame) point(p geom.Point, extent float64) geom.Point {
	switch f.dir {
	case layout.BottomToTop:
		return geom.Point{X: p.X, Y: extent - p.Y}
	case layout.LeftToRight:
		return geom.Point{X: p.Y, Y: p.X}
	case layout.RightToLeft:
		return geom.Point{X: extent - p.Y, Y: p.X}
	default:
		return p
	}
}
