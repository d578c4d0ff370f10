package layered

// breakCycles finds back edges with a depth-first search, starting from
// sources so that natural flows keep their direction. The returned slice
// marks the edges that must be reversed to make the level acyclic.
func breakCycles(n int, edges [][2]int) []bool {
	const (
		white = iota
		gray
		black
	)

	out := make([][]int, n)
	indeg := make([]int, n)
	for i, e := range edges {
		out[e[0]] = append(out[e[0]], i)
		indeg[e[1]]++
	}

	color := make([]int, n)
	reversed := make([]bool, len(edges))

	var dfs func(u int)
	dfs = func(u int) {
		color[u] = gray
		for _, ei := range out[u] {
			v := edges[ei][1]
			switch color[v] {
			case white:
				dfs(v)
			case gray:
				reversed[ei] = true
			}
		}
		color[u] = black
	}

	for u := range n {
		if indeg[u] == 0 && color[u] == white {
			dfs(u)
		}
	}
	for u := range n {
		if color[u] == white {
			dfs(u)
		}
	}
	return reversed
}
