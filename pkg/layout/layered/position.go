package layered

import (
	"math"
	"slices"

	"github.com/matzehuels/supplychain/pkg/geom"
)

// balancePasses is the number of alternating coordinate refinement passes.
const balancePasses = 4

// assign computes canonical coordinates: layers stacked along y, vertices
// packed along x and then pulled toward their neighbors.
func (s *sugiyama) assign() {
	s.gap = max(s.opts.MinimumLayerDistance, s.opts.MinimumFirstSegmentLength+s.opts.MinimumLastSegmentLength)

	s.x = make([]float64, len(s.rank))
	s.y = make([]float64, len(s.rank))
	s.layerTop = make([]float64, len(s.layers))
	s.layerDepth = make([]float64, len(s.layers))

	top := 0.0
	for l, layer := range s.layers {
		depth := 0.0
		for _, v := range layer {
			depth = max(depth, s.size[v].Height)
		}
		s.layerTop[l], s.layerDepth[l] = top, depth
		for _, v := range layer {
			s.y[v] = top + (depth-s.size[v].Height)/2
		}
		top += depth + s.gap
	}

	for _, layer := range s.layers {
		cursor := 0.0
		for i, v := range layer {
			if i > 0 {
				cursor += s.separation(layer[i-1], v)
			}
			s.x[v] = cursor
			cursor += s.size[v].Width
		}
	}

	for pass := range balancePasses {
		if pass%2 == 0 {
			for l := 1; l < len(s.layers); l++ {
				s.balance(s.layers[l], s.pred)
			}
		} else {
			for l := len(s.layers) - 2; l >= 0; l-- {
				s.balance(s.layers[l], s.succ)
			}
		}
	}
	if s.hasRows {
		s.separateRows()
	}
}

func (s *sugiyama) separation(a, b int) float64 {
	if s.isDummy(a) || s.isDummy(b) {
		return s.opts.NodeDistance / 2
	}
	return s.opts.NodeDistance
}

func (s *sugiyama) center(v int) float64 { return s.x[v] + s.size[v].Width/2 }

// balance moves each vertex of layer toward the mean center of its
// neighbors while keeping the order and minimum separation.
func (s *sugiyama) balance(layer []int, adj [][]int) {
	k := len(layer)
	if k == 0 {
		return
	}
	want := make([]float64, k)
	for i, v := range layer {
		if len(adj[v]) == 0 {
			want[i] = s.x[v]
			continue
		}
		sum := 0.0
		for _, u := range adj[v] {
			sum += s.center(u)
		}
		want[i] = sum/float64(len(adj[v])) - s.size[v].Width/2
	}

	left := make([]float64, k)
	left[0] = want[0]
	for i := 1; i < k; i++ {
		prev := layer[i-1]
		left[i] = max(want[i], left[i-1]+s.size[prev].Width+s.separation(prev, layer[i]))
	}
	right := make([]float64, k)
	right[k-1] = want[k-1]
	for i := k - 2; i >= 0; i-- {
		v := layer[i]
		right[i] = min(want[i], right[i+1]-s.size[v].Width-s.separation(v, layer[i+1]))
	}

	for i, v := range layer {
		s.x[v] = (left[i] + right[i]) / 2
		if i > 0 {
			prev := layer[i-1]
			s.x[v] = max(s.x[v], s.x[prev]+s.size[prev].Width+s.separation(prev, v))
		}
	}
}

// separateRows shifts grid rows into disjoint bands along the cross axis.
// Layers are sorted by row, so shifting a row's first vertex and everything
// after it keeps the order intact.
func (s *sugiyama) separateRows() {
	var rows []int
	for v := range s.n {
		if !slices.Contains(rows, s.row[v]) {
			rows = append(rows, s.row[v])
		}
	}
	slices.Sort(rows)

	prevEnd := math.Inf(-1)
	for _, r := range rows {
		start := prevEnd + 2*s.opts.NodeDistance
		end := math.Inf(-1)
		for _, layer := range s.layers {
			i := slices.IndexFunc(layer, func(v int) bool { return s.row[v] == r })
			if i < 0 {
				continue
			}
			if shift := start - s.x[layer[i]]; shift > 0 {
				for _, v := range layer[i:] {
					s.x[v] += shift
				}
			}
		}
		for _, layer := range s.layers {
			for _, v := range layer {
				if s.row[v] == r {
					end = max(end, s.x[v]+s.size[v].Width)
				}
			}
		}
		if !math.IsInf(end, -1) {
			prevEnd = end
		}
	}
}

// normalize moves the level to the origin and collects member rectangles.
func (s *sugiyama) normalize() {
	minX := math.Inf(1)
	for v := range s.x {
		minX = min(minX, s.x[v])
	}
	if math.IsInf(minX, 1) {
		minX = 0
	}

	s.rects = make([]geom.Rect, s.n)
	for v := range s.n {
		r := geom.Rect{X: s.x[v] - minX, Y: s.y[v], Width: s.size[v].Width, Height: s.size[v].Height}
		s.rects[v] = r
		s.extent.Width = max(s.extent.Width, r.MaxX())
		s.extent.Height = max(s.extent.Height, r.MaxY())
	}
	for i, pts := range s.bends {
		for j := range pts {
			s.bends[i][j].X -= minX
			s.extent.Width = max(s.extent.Width, s.bends[i][j].X)
		}
	}
}
