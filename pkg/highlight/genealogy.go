package highlight

import (
	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/fold"
)

// Genealogy returns the master nodes that stay visible when the view is
// filtered to the genealogy of start: its neighborhood in the filtered
// master graph, following connections in both directions, plus the group
// ancestors of every node reached. Folding does not affect the result.
// Returns nil if start is filtered out.
func Genealogy(v *fold.View, start chain.ItemID) map[chain.ItemID]bool {
	if v.IsFiltered(start) {
		return nil
	}
	g := v.Master()
	keep := map[chain.ItemID]bool{start: true}
	queue := []chain.ItemID{start}
	for i := 0; i < len(queue); i++ {
		cur := queue[i]
		for _, e := range g.EdgesAt(cur) {
			if v.IsEdgeFiltered(e) {
				continue
			}
			next := e.Target
			if next == cur {
				next = e.Source
			}
			if !keep[next] {
				keep[next] = true
				queue = append(queue, next)
			}
		}
	}
	for _, id := range queue {
		for _, a := range g.Ancestors(id) {
			keep[a] = true
		}
	}
	return keep
}

// FilterGenealogy hides every master node outside the genealogy of start,
// including the descendants of hidden groups. Returns the number of nodes
// hidden, or -1 if start is filtered out.
func FilterGenealogy(v *fold.View, start chain.ItemID) int {
	keep := Genealogy(v, start)
	if keep == nil {
		return -1
	}
	var hide []chain.ItemID
	for _, n := range v.Master().Nodes() {
		if !keep[n.ID] {
			hide = append(hide, n.ID)
		}
	}
	v.Hide(hide...)
	return len(hide)
}
