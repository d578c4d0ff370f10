package layered

import (
	"math"
	"slices"

	"github.com/matzehuels/supplychain/pkg/geom"
	"github.com/matzehuels/supplychain/pkg/layout"
)

// maxChamfer caps the diagonal cut of octilinear corners.
const maxChamfer = 10.0

// route returns the canonical bend points of edge i. Endpoints are implied
// by the node rectangles and are not included.
func (s *sugiyama) route(i int) []geom.Point {
	path := s.chains[i]
	var pts []geom.Point

	switch s.opts.Routing {
	case layout.Polyline, layout.Curved:
		for _, d := range path[1 : len(path)-1] {
			l := s.rank[d]
			pts = append(pts, geom.Point{X: s.center(d), Y: s.layerTop[l] + s.layerDepth[l]/2})
		}
	default:
		for j := 0; j+1 < len(path); j++ {
			a, b := path[j], path[j+1]
			ax, bx := s.center(a), s.center(b)
			if math.Abs(ax-bx) < 0.5 {
				continue
			}
			mid := s.layerTop[s.rank[b]] - s.gap/2
			if s.opts.Routing == layout.Octilinear {
				c := min(maxChamfer, math.Abs(bx-ax)/2, s.gap/4)
				sign := 1.0
				if bx < ax {
					sign = -1
				}
				pts = append(pts,
					geom.Point{X: ax, Y: mid - c},
					geom.Point{X: ax + sign*c, Y: mid},
					geom.Point{X: bx - sign*c, Y: mid},
					geom.Point{X: bx, Y: mid + c},
				)
				continue
			}
			pts = append(pts, geom.Point{X: ax, Y: mid}, geom.Point{X: bx, Y: mid})
		}
	}

	if s.reversed[i] {
		slices.Reverse(pts)
	}
	return pts
}
