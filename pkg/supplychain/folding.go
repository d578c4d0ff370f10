package supplychain

import (
	"context"

	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/errors"
	"github.com/matzehuels/supplychain/pkg/highlight"
	"github.com/matzehuels/supplychain/pkg/layout"
)

// CanCollapse reports whether id is a visible, expanded group.
func (m *Model) CanCollapse(id chain.ItemID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view.CanCollapse(id)
}

// CanExpand reports whether id is a visible, collapsed group.
func (m *Model) CanExpand(id chain.ItemID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view.CanExpand(id)
}

// IsCollapsed reports whether id is a collapsed group.
func (m *Model) IsCollapsed(id chain.ItemID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view.IsCollapsed(id)
}

// Collapse folds a group and its nested groups, then lays out the folder
// incrementally in place. It does nothing unless [Model.CanCollapse] holds.
func (m *Model) Collapse(ctx context.Context, id chain.ItemID) error {
	m.mu.Lock()
	if err := m.known(id); err != nil {
		m.mu.Unlock()
		return err
	}
	if !m.view.CanCollapse(id) {
		m.mu.Unlock()
		return nil
	}
	m.highlight.Deactivate()
	m.view.Collapse(id)
	m.highlight.Activate(m.view)
	m.mu.Unlock()

	defer m.changed()
	return m.runLayout(ctx, layout.Run{Incremental: true, Nodes: []string{string(id)}, Fixed: string(id)})
}

// Expand unfolds a group and its nested groups, then lays out the group and
// its children incrementally around the folder's position. It does nothing
// unless [Model.CanExpand] holds.
func (m *Model) Expand(ctx context.Context, id chain.ItemID) error {
	m.mu.Lock()
	if err := m.known(id); err != nil {
		m.mu.Unlock()
		return err
	}
	if !m.view.CanExpand(id) {
		m.mu.Unlock()
		return nil
	}
	m.highlight.Deactivate()
	m.view.Expand(id)
	m.highlight.Activate(m.view)

	nodes := []string{string(id)}
	for _, c := range m.view.Children(id) {
		nodes = append(nodes, string(c))
	}
	m.mu.Unlock()

	defer m.changed()
	return m.runLayout(ctx, layout.Run{Incremental: true, Nodes: nodes, Fixed: string(id)})
}

// Toggle expands a collapsed group or collapses an expanded one.
func (m *Model) Toggle(ctx context.Context, id chain.ItemID) error {
	if m.CanExpand(id) {
		return m.Expand(ctx, id)
	}
	return m.Collapse(ctx, id)
}

// ShowLevel collapses every group with n or more group ancestors, expands
// every group with fewer, and runs one full layout.
func (m *Model) ShowLevel(ctx context.Context, n int) error {
	if n < 0 {
		return errors.New(errors.ErrCodeContract, "show level must not be negative, got %d", n)
	}
	m.mu.Lock()
	m.highlight.Deactivate()
	g := m.store.Graph()
	for _, id := range g.DescendantsBottomUp("") {
		if g.IsGroup(id) && g.Depth(id) >= n {
			m.view.SetCollapsed(id, true)
		}
	}
	var nodes []string
	for _, id := range g.Descendants("") {
		if !g.IsGroup(id) || g.Depth(id) >= n {
			continue
		}
		if m.view.ViewNode(id) != nil {
			nodes = append(nodes, string(id))
		}
		m.view.SetCollapsed(id, false)
		for _, c := range m.view.Children(id) {
			nodes = append(nodes, string(c))
		}
	}
	m.highlight.Activate(m.view)
	m.mu.Unlock()

	m.logger.Debug("show level", "level", n, "expanded", len(nodes))
	defer m.changed()
	return m.runLayout(ctx, layout.Run{Nodes: nodes, Fit: true})
}

// CollapsedGroups returns the ids of the collapsed groups.
func (m *Model) CollapsedGroups() []chain.ItemID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view.CollapsedGroups()
}

// =============================================================================
// Filtering
// =============================================================================

// CanShowAll reports whether anything is filtered out.
func (m *Model) CanShowAll() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view.HiddenCount() > 0
}

// ShowAll clears the filter and runs a full layout over every node.
func (m *Model) ShowAll(ctx context.Context) error {
	m.mu.Lock()
	m.highlight.Deactivate()
	m.view.ClearHidden()
	m.highlight.Activate(m.view)
	var nodes []string
	for _, n := range m.view.Nodes() {
		nodes = append(nodes, string(n.ID))
	}
	m.mu.Unlock()

	defer m.changed()
	return m.runLayout(ctx, layout.Run{Nodes: nodes, Fit: true})
}

// ShowGenealogy hides everything outside the genealogy of id and runs a
// full layout. With onlyConnected the filter narrows the current one;
// otherwise the previous filter is cleared first.
func (m *Model) ShowGenealogy(ctx context.Context, id chain.ItemID, onlyConnected bool) error {
	m.mu.Lock()
	if err := m.known(id); err != nil {
		m.mu.Unlock()
		return err
	}
	m.highlight.Deactivate()
	if !onlyConnected {
		m.view.ClearHidden()
	}
	hidden := highlight.FilterGenealogy(m.view, id)
	m.highlight.Activate(m.view)
	m.mu.Unlock()

	if hidden < 0 {
		m.logger.Debug("genealogy of invisible item ignored", "id", id)
		return nil
	}
	defer m.changed()
	return m.runLayout(ctx, layout.Run{Fit: true})
}

// FilterForConnected narrows the current filter to the genealogy of id.
func (m *Model) FilterForConnected(ctx context.Context, id chain.ItemID) error {
	return m.ShowGenealogy(ctx, id, true)
}

// =============================================================================
// Highlight
// =============================================================================

// Highlight replaces the highlight with the items connected to id in the
// current view. Invisible items are ignored.
func (m *Model) Highlight(id chain.ItemID) error {
	m.mu.Lock()
	if err := m.known(id); err != nil {
		m.mu.Unlock()
		return err
	}
	ok := m.highlight.HighlightNeighborhood(m.view, id)
	m.mu.Unlock()
	if ok {
		m.changed()
	}
	return nil
}

// CanClearHighlight reports whether anything is highlighted.
func (m *Model) CanClearHighlight() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.highlight.Len() > 0
}

// ClearHighlight removes the highlight.
func (m *Model) ClearHighlight() {
	m.mu.Lock()
	m.highlight.Clear()
	m.mu.Unlock()
	m.changed()
}

// Highlighted returns the view items currently drawn highlighted.
func (m *Model) Highlighted() []chain.ItemID {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []chain.ItemID
	for _, n := range m.view.Nodes() {
		if m.highlight.IsNodeHighlighted(n.ID) {
			out = append(out, n.ID)
		}
	}
	return out
}

// known must be called with the model lock held.
func (m *Model) known(id chain.ItemID) error {
	if m.store.NodeForID(id) == nil {
		return errors.New(errors.ErrCodeItemNotFound, "unknown item %q", id)
	}
	return nil
}
