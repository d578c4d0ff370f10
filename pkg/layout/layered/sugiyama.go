package layered

import (
	"cmp"
	"context"
	"slices"

	"github.com/matzehuels/supplychain/pkg/geom"
	"github.com/matzehuels/supplychain/pkg/layout"
)

// level is the flat input of one Sugiyama run: the direct members of a
// group and the connections lifted to them.
type level struct {
	sizes   []geom.Size // canonical: Width along a layer, Height across
	current []float64   // current cross-axis centers
	movable []bool
	rows    []int // -1 without a grid cell
	columns []int
	edges   []levelEdge
}

type levelEdge struct {
	id   string
	u, v int
}

// sugiyama holds the working state of one level. Vertices 0..n-1 are the
// level members, the rest are dummies splitting long edges.
type sugiyama struct {
	lv          *level
	opts        layout.Options
	iterations  int
	incremental bool
	hasRows     bool

	n       int
	size    []geom.Size
	rank    []int
	row     []int
	current []float64
	movable []bool
	succ    [][]int
	pred    [][]int

	chains   [][]int
	reversed []bool

	layers [][]int
	pos    []int
	bary   []float64

	x, y       []float64
	layerTop   []float64
	layerDepth []float64
	gap        float64

	rects  []geom.Rect
	bends  [][]geom.Point
	extent geom.Size
}

func newSugiyama(lv *level, opts layout.Options, iterations int, incremental bool) *sugiyama {
	n := len(lv.sizes)
	s := &sugiyama{
		lv:          lv,
		opts:        opts,
		iterations:  iterations,
		incremental: incremental,
		n:           n,
		size:        slices.Clone(lv.sizes),
		row:         slices.Clone(lv.rows),
		current:     slices.Clone(lv.current),
		movable:     slices.Clone(lv.movable),
		succ:        make([][]int, n),
		pred:        make([][]int, n),
	}
	rows := make(map[int]bool)
	for _, r := range lv.rows {
		rows[r] = true
	}
	s.hasRows = len(rows) > 1
	return s
}

func (s *sugiyama) run(ctx context.Context) error {
	pairs := make([][2]int, len(s.lv.edges))
	for i, e := range s.lv.edges {
		pairs[i] = [2]int{e.u, e.v}
	}
	s.reversed = breakCycles(s.n, pairs)

	flow := make([][]int, s.n)
	for i, p := range pairs {
		if s.reversed[i] {
			p[0], p[1] = p[1], p[0]
		}
		pairs[i] = p
		flow[p[0]] = append(flow[p[0]], p[1])
	}
	s.rank = layerWithColumns(flow, s.lv.columns)

	s.chains = make([][]int, len(pairs))
	for i, p := range pairs {
		s.chains[i] = s.split(p[0], p[1])
	}

	s.initialOrder()
	if err := s.order(ctx); err != nil {
		return err
	}
	s.assign()

	s.bends = make([][]geom.Point, len(s.chains))
	for i := range s.chains {
		s.bends[i] = s.route(i)
	}
	s.normalize()
	return nil
}

// split links a to b through one dummy per intermediate layer and returns
// the vertex path.
func (s *sugiyama) split(a, b int) []int {
	path := []int{a}
	prev := a
	span := float64(s.rank[b] - s.rank[a])
	for r := s.rank[a] + 1; r < s.rank[b]; r++ {
		d := len(s.size)
		t := float64(r-s.rank[a]) / span
		s.size = append(s.size, geom.Size{})
		s.rank = append(s.rank, r)
		s.row = append(s.row, s.row[a])
		s.current = append(s.current, s.current[a]+(s.current[b]-s.current[a])*t)
		s.movable = append(s.movable, true)
		s.succ = append(s.succ, nil)
		s.pred = append(s.pred, nil)
		s.link(prev, d)
		path = append(path, d)
		prev = d
	}
	s.link(prev, b)
	return append(path, b)
}

func (s *sugiyama) link(u, v int) {
	s.succ[u] = append(s.succ[u], v)
	s.pred[v] = append(s.pred[v], u)
}

func (s *sugiyama) isDummy(v int) bool { return v >= s.n }

// =============================================================================
// Ordering
// =============================================================================

func (s *sugiyama) initialOrder() {
	depth := 0
	for _, r := range s.rank {
		depth = max(depth, r+1)
	}
	s.layers = make([][]int, depth)
	for v, r := range s.rank {
		s.layers[r] = append(s.layers[r], v)
	}
	s.pos = make([]int, len(s.rank))
	s.bary = make([]float64, len(s.rank))
	for _, layer := range s.layers {
		if s.incremental {
			slices.SortStableFunc(layer, func(a, b int) int { return cmp.Compare(s.current[a], s.current[b]) })
		}
		s.sortRows(layer)
		s.index(layer)
	}
}

// order runs alternating barycenter sweeps and keeps the ordering with the
// fewest crossings.
func (s *sugiyama) order(ctx context.Context) error {
	best := cloneLayers(s.layers)
	bestCrossings := s.crossings()
	for i := 0; i < s.iterations && bestCrossings > 0; i++ {
		if err := ctx.Err(); err != nil {
			return context.Cause(ctx)
		}
		s.sweep(i%2 == 0)
		if c := s.crossings(); c < bestCrossings {
			best, bestCrossings = cloneLayers(s.layers), c
		}
	}
	s.layers = best
	for _, layer := range s.layers {
		s.index(layer)
	}
	return nil
}

func (s *sugiyama) sweep(down bool) {
	if down {
		for l := 1; l < len(s.layers); l++ {
			s.reorder(l, s.pred, len(s.layers[l-1]))
		}
		return
	}
	for l := len(s.layers) - 2; l >= 0; l-- {
		s.reorder(l, s.succ, len(s.layers[l+1]))
	}
}

// reorder sorts layer l by the mean position of each vertex's neighbors in
// the adjacent layer of the given width.
func (s *sugiyama) reorder(l int, adj [][]int, width int) {
	layer := s.layers[l]
	scale := float64(width) / float64(max(len(layer), 1))
	for _, v := range layer {
		if len(adj[v]) == 0 {
			s.bary[v] = float64(s.pos[v]) * scale
			continue
		}
		sum := 0
		for _, u := range adj[v] {
			sum += s.pos[u]
		}
		s.bary[v] = float64(sum) / float64(len(adj[v]))
	}

	byBary := func(a, b int) int { return cmp.Compare(s.bary[a], s.bary[b]) }
	if s.incremental {
		s.layers[l] = s.mergeFixed(layer, byBary)
	} else {
		slices.SortStableFunc(layer, byBary)
	}
	s.sortRows(s.layers[l])
	s.index(s.layers[l])
}

// mergeFixed keeps the relative order of vertices that may not move and
// inserts the movable ones by barycenter.
func (s *sugiyama) mergeFixed(layer []int, byBary func(a, b int) int) []int {
	var fixed, moving []int
	for _, v := range layer {
		if s.movable[v] {
			moving = append(moving, v)
		} else {
			fixed = append(fixed, v)
		}
	}
	slices.SortStableFunc(moving, byBary)

	out := make([]int, 0, len(layer))
	i, j := 0, 0
	for i < len(fixed) && j < len(moving) {
		if byBary(moving[j], fixed[i]) < 0 {
			out = append(out, moving[j])
			j++
		} else {
			out = append(out, fixed[i])
			i++
		}
	}
	out = append(out, fixed[i:]...)
	return append(out, moving[j:]...)
}

func (s *sugiyama) sortRows(layer []int) {
	if s.hasRows {
		slices.SortStableFunc(layer, func(a, b int) int { return cmp.Compare(s.row[a], s.row[b]) })
	}
}

func (s *sugiyama) index(layer []int) {
	for i, v := range layer {
		s.pos[v] = i
	}
}

func cloneLayers(layers [][]int) [][]int {
	out := make([][]int, len(layers))
	for i, l := range layers {
		out[i] = slices.Clone(l)
	}
	return out
}

// crossings returns the total number of crossings between adjacent layers.
func (s *sugiyama) crossings() int {
	total := 0
	for l := 0; l+1 < len(s.layers); l++ {
		total += s.layerCrossings(s.layers[l], len(s.layers[l+1]))
	}
	return total
}

// layerCrossings counts crossings between upper and the next layer using a
// Fenwick tree. Two edges (u1,v1) and (u2,v2) cross iff
// pos(u1) < pos(u2) and pos(v1) > pos(v2), so the count equals the number
// of inversions among target positions when edges are sorted by source.
func (s *sugiyama) layerCrossings(upper []int, lowerWidth int) int {
	type edge struct{ upper, lower int }
	var edges []edge
	for i, u := range upper {
		for _, v := range s.succ[u] {
			edges = append(edges, edge{i, s.pos[v]})
		}
	}
	if len(edges) < 2 {
		return 0
	}
	slices.SortFunc(edges, func(a, b edge) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	fenwick := make([]int, lowerWidth+1)
	crossings, total := 0, 0
	for _, e := range edges {
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += total - lessOrEqual
		total++
		for q := e.lower + 1; q <= lowerWidth; q += q & (-q) {
			fenwick[q]++
		}
	}
	return crossings
}
