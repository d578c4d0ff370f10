package layered

import "slices"

// assignLayers places every node one layer below its deepest predecessor
// (longest path, Kahn's algorithm). lower holds per-node minimum layers.
// The graph must be acyclic.
func assignLayers(succ [][]int, lower []int) []int {
	n := len(succ)
	indeg := make([]int, n)
	for _, vs := range succ {
		for _, v := range vs {
			indeg[v]++
		}
	}
	layers := slices.Clone(lower)
	queue := make([]int, 0, n)
	for u := range n {
		if indeg[u] == 0 {
			queue = append(queue, u)
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, v := range succ[cur] {
			if l := layers[cur] + 1; l > layers[v] {
				layers[v] = l
			}
			indeg[v]--
			if indeg[v] == 0 {
				queue = append(queue, v)
			}
		}
	}
	return layers
}

// layerWithColumns layers the graph so that grid columns occupy
// consecutive layer ranges. columns holds -1 for nodes without a cell.
func layerWithColumns(succ [][]int, columns []int) []int {
	n := len(succ)
	lower := make([]int, n)
	maxCol := -1
	for _, c := range columns {
		maxCol = max(maxCol, c)
	}
	layers := assignLayers(succ, lower)
	if maxCol <= 0 {
		return layers
	}

	for range maxCol + 1 {
		start := make([]int, maxCol+1)
		for c := 1; c <= maxCol; c++ {
			end := start[c-1] - 1
			for u, col := range columns {
				if col == c-1 {
					end = max(end, layers[u])
				}
			}
			start[c] = max(start[c-1], end+1)
		}
		changed := false
		for u, col := range columns {
			if col > 0 && lower[u] < start[col] {
				lower[u] = start[col]
				changed = true
			}
		}
		if !changed {
			break
		}
		layers = assignLayers(succ, lower)
	}
	return layers
}
