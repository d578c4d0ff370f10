package supplychain

import (
	"context"

	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/geom"
	"github.com/matzehuels/supplychain/pkg/viewport"
)

// Zoom returns the current zoom level.
func (m *Model) Zoom() float64 { return m.vp.Zoom() }

// ZoomIn zooms in one step around the viewport center.
func (m *Model) ZoomIn() { m.vp.ZoomIn() }

// ZoomOut zooms out one step around the viewport center.
func (m *Model) ZoomOut() { m.vp.ZoomOut() }

// ZoomToOriginal resets the zoom to 1.
func (m *Model) ZoomToOriginal() { m.vp.ZoomToOriginal() }

// FitContent animates the viewport so the whole diagram fits with the given
// insets. It does nothing before the first layout.
func (m *Model) FitContent(ctx context.Context, insets float64) error {
	bounds, ok := m.vp.Content()
	if !ok {
		return nil
	}
	return m.vp.Animate(ctx, m.vp.FitState(bounds, insets), m.opts.viewportAnimation())
}

// ZoomTo animates the viewport onto the given items and connections. Items
// inside collapsed groups resolve to their folder; refs that are not drawn
// are skipped.
func (m *Model) ZoomTo(ctx context.Context, refs ...chain.Ref) error {
	m.mu.Lock()
	var rects []geom.Rect
	for _, ref := range refs {
		rects = append(rects, m.refBounds(ref)...)
	}
	m.mu.Unlock()

	bounds, ok := geom.Bounds(rects...)
	if !ok {
		return nil
	}
	return m.vp.Animate(ctx, m.vp.ZoomToState(bounds), m.opts.viewportAnimation())
}

// ZoomToItem is ZoomTo for a single item id.
func (m *Model) ZoomToItem(ctx context.Context, id chain.ItemID) error {
	it := m.Item(id)
	if it == nil {
		return nil
	}
	return m.ZoomTo(ctx, chain.ItemRef(it))
}

// SetViewportState jumps to s.
func (m *Model) SetViewportState(s viewport.State) { m.vp.SetState(s) }

// refBounds must be called with the model lock held.
func (m *Model) refBounds(ref chain.Ref) []geom.Rect {
	if ref.Kind == chain.KindItem {
		if ref.Item == nil {
			return nil
		}
		if n := m.view.NearestVisible(ref.Item.ID); n != nil {
			return []geom.Rect{m.view.NodeLayout(n.ID)}
		}
		return nil
	}
	var out []geom.Rect
	for _, c := range ref.Connections() {
		if c == nil {
			continue
		}
		me := m.store.EdgeForIDs(c.SourceID, c.TargetID)
		if me == nil {
			continue
		}
		ve := m.view.ViewEdgeFor(me.ID)
		if ve == nil {
			continue
		}
		out = append(out, m.view.NodeLayout(ve.Source), m.view.NodeLayout(ve.Target))
		if r, ok := geom.PointBounds(m.view.EdgeBends(ve.ID)); ok {
			out = append(out, r)
		}
	}
	return out
}
