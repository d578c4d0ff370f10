package supplychain

import (
	"context"

	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/layout"
	"github.com/matzehuels/supplychain/pkg/viewport"
)

// LayoutRequest describes an explicit layout run.
type LayoutRequest struct {
	// Incremental keeps the current arrangement and places Items.
	Incremental bool

	// Items are placed incrementally. Items that are not visible are
	// ignored.
	Items []chain.ItemID

	// Fixed names an item that keeps its position, or "".
	Fixed chain.ItemID

	// Fit refits the viewport after the run.
	Fit bool

	// Options override the model's layout options when non-nil.
	Options *layout.Options
}

// ApplyLayout runs a layout. It returns once the run has committed, been
// superseded, or failed; only failures return an error.
func (m *Model) ApplyLayout(ctx context.Context, req LayoutRequest) error {
	m.mu.Lock()
	run := layout.Run{Incremental: req.Incremental, Fit: req.Fit, Options: req.Options}
	for _, id := range req.Items {
		if m.view.ViewNode(id) != nil {
			run.Nodes = append(run.Nodes, string(id))
		}
	}
	if req.Fixed != "" && m.view.ViewNode(req.Fixed) != nil {
		run.Fixed = string(req.Fixed)
	}
	m.mu.Unlock()

	defer m.changed()
	return m.runLayout(ctx, run)
}

// runLayout must be called without the model lock.
func (m *Model) runLayout(ctx context.Context, run layout.Run) error {
	outcome, err := m.orch.Run(ctx, run)
	if err != nil {
		return err
	}
	if outcome == layout.OutcomeCompleted && run.Fit {
		return m.FitContent(ctx, viewport.DefaultFitInsets)
	}
	return nil
}
