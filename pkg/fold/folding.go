package fold

import (
	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/dag"
	"github.com/matzehuels/supplychain/pkg/geom"
)

// IsCollapsed reports whether a group is collapsed.
func (v *View) IsCollapsed(id chain.ItemID) bool {
	return v.collapsed[id] && v.g.IsGroup(id)
}

// CanCollapse reports whether id is a visible, expanded group.
func (v *View) CanCollapse(id chain.ItemID) bool {
	return v.g.IsGroup(id) && !v.collapsed[id] && v.ViewNode(id) != nil
}

// CanExpand reports whether id is a visible, collapsed group.
func (v *View) CanExpand(id chain.ItemID) bool {
	return v.g.IsGroup(id) && v.collapsed[id] && v.ViewNode(id) != nil
}

// Collapse folds a group and every group below it. The folder is placed at
// the group's upper-left corner. Returns false if [View.CanCollapse] does
// not hold.
func (v *View) Collapse(id chain.ItemID) bool {
	if !v.CanCollapse(id) {
		return false
	}
	for _, d := range v.g.DescendantsBottomUp(id) {
		if v.g.IsGroup(d) && !v.collapsed[d] {
			v.collapseOne(d)
		}
	}
	v.collapseOne(id)
	v.invalidate()
	return true
}

// Expand unfolds a group and every group below it. Descendants are placed
// at the folder's center so the next incremental layout starts from there.
// Returns false if [View.CanExpand] does not hold.
func (v *View) Expand(id chain.ItemID) bool {
	if !v.CanExpand(id) {
		return false
	}
	center := v.folders[id].Center()
	v.expandOne(id, center)
	for _, d := range v.g.Descendants(id) {
		if v.collapsed[d] {
			v.expandOne(d, center)
		} else if m := v.g.Node(d); m != nil {
			m.Layout = m.Layout.WithCenter(center)
		}
	}
	v.invalidate()
	return true
}

// SetCollapsed sets the fold state of a single group without touching its
// descendants and without visibility guards. Returns whether it changed.
func (v *View) SetCollapsed(id chain.ItemID, collapsed bool) bool {
	if !v.g.IsGroup(id) || v.collapsed[id] == collapsed {
		return false
	}
	if collapsed {
		v.collapseOne(id)
	} else {
		m := v.g.Node(id)
		v.expandOne(id, v.folders[id].Center())
		for _, d := range v.g.Descendants(id) {
			if v.rep(d) == d {
				if dn := v.g.Node(d); dn != nil {
					dn.Layout = dn.Layout.WithCenter(m.Layout.Center())
				}
			}
		}
	}
	v.invalidate()
	return true
}

func (v *View) collapseOne(id chain.ItemID) {
	m := v.g.Node(id)
	v.expanded[id] = m.Layout
	size, ok := v.folderSizes[id]
	if !ok {
		size = v.opts.FolderSize
	}
	v.folders[id] = geom.RectAt(m.Layout.TopLeft(), size)
	v.collapsed[id] = true
}

func (v *View) expandOne(id chain.ItemID, center geom.Point) {
	m := v.g.Node(id)
	folder := v.folders[id]
	v.folderSizes[id] = folder.Size()
	size := m.Layout.Size()
	if r, ok := v.expanded[id]; ok {
		size = r.Size()
	}
	m.Layout = geom.RectCentered(center, size)
	delete(v.collapsed, id)
	delete(v.folders, id)
	delete(v.expanded, id)
}

// CollapsedGroups returns the collapsed group ids.
func (v *View) CollapsedGroups() []chain.ItemID {
	var out []chain.ItemID
	for _, n := range v.g.Nodes() {
		if v.IsCollapsed(n.ID) {
			out = append(out, n.ID)
		}
	}
	return out
}

// =============================================================================
// Filtering
// =============================================================================

// Hide adds master nodes to the hidden set. Their descendants disappear
// from the view with them.
func (v *View) Hide(ids ...chain.ItemID) {
	changed := false
	for _, id := range ids {
		if !v.hiddenNodes[id] && v.g.HasNode(id) {
			v.hiddenNodes[id] = true
			changed = true
		}
	}
	if changed {
		v.invalidate()
	}
}

// HideEdges adds master edges to the hidden set.
func (v *View) HideEdges(ids ...dag.EdgeID) {
	changed := false
	for _, id := range ids {
		if !v.hiddenEdges[id] && v.g.Edge(id) != nil {
			v.hiddenEdges[id] = true
			changed = true
		}
	}
	if changed {
		v.invalidate()
	}
}

// IsHidden reports whether a master node is in the hidden set.
func (v *View) IsHidden(id chain.ItemID) bool { return v.hiddenNodes[id] }

// IsFiltered reports whether id or one of its group ancestors is hidden.
// Unknown ids count as filtered.
func (v *View) IsFiltered(id chain.ItemID) bool {
	if !v.g.HasNode(id) {
		return true
	}
	for a := id; a != ""; a = v.g.Parent(a) {
		if v.hiddenNodes[a] {
			return true
		}
	}
	return false
}

// IsEdgeFiltered reports whether the master edge is hidden or has a
// filtered endpoint.
func (v *View) IsEdgeFiltered(e *dag.Edge) bool {
	return v.hiddenEdges[e.ID] || v.IsFiltered(e.Source) || v.IsFiltered(e.Target)
}

// HiddenCount returns the number of hidden master nodes and edges.
func (v *View) HiddenCount() int { return len(v.hiddenNodes) + len(v.hiddenEdges) }

// ClearHidden empties the hidden set.
func (v *View) ClearHidden() {
	if v.HiddenCount() == 0 {
		return
	}
	clear(v.hiddenNodes)
	clear(v.hiddenEdges)
	v.invalidate()
}
