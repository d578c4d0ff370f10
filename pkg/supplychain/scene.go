package supplychain

import (
	"context"

	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/errors"
	"github.com/matzehuels/supplychain/pkg/render"
	"github.com/matzehuels/supplychain/pkg/search"
)

// Scene snapshots what the diagram currently shows.
func (m *Model) Scene() render.Scene {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sceneLocked()
}

func (m *Model) sceneLocked() render.Scene {
	hits := make(map[chain.ItemID]bool)
	for _, id := range m.hitsLocked() {
		hits[id] = true
	}
	s := render.Capture(m.view, render.Decorations{
		Palette:   m.palette,
		Highlight: m.highlight,
		Hits:      hits,
		Heat:      m.providers.Heat,
		Inspector: m.store,
	})
	for i := range s.Edges {
		if m.suppressed[s.Edges[i].ID] {
			s.Edges[i].Style = s.Edges[i].Style.Hidden()
			s.Edges[i].Label = nil
		}
	}
	return s
}

// =============================================================================
// Search
// =============================================================================

// SetSearchNeedle marks the visible items matching needle. An empty needle
// clears the marks.
func (m *Model) SetSearchNeedle(needle string) {
	m.mu.Lock()
	m.needle = needle
	m.mu.Unlock()
	m.changed()
}

// SearchNeedle returns the current needle.
func (m *Model) SearchNeedle() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.needle
}

// SearchHits returns the visible items matching the current needle.
func (m *Model) SearchHits() []chain.ItemID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hitsLocked()
}

func (m *Model) hitsLocked() []chain.ItemID {
	if m.needle == "" {
		return nil
	}
	var items []*chain.Item
	for _, n := range m.view.Nodes() {
		items = append(items, n.Item)
	}
	return search.Hits(m.providers.Search, items, m.needle)
}

// =============================================================================
// Export
// =============================================================================

// ExportSettings returns the default export settings at the current zoom.
func (m *Model) ExportSettings() render.ExportSettings {
	s := render.DefaultExportSettings(m.vp.Zoom())
	s.Fetcher = m.opts.Fetcher
	m.mu.Lock()
	s.Heat = m.providers.Heat != nil
	m.mu.Unlock()
	return s
}

// Export renders the diagram as format.
func (m *Model) Export(ctx context.Context, format render.Format, settings render.ExportSettings) ([]byte, error) {
	return render.Export(ctx, m.Scene(), format, settings)
}

// ExportSVG renders the diagram as SVG with the default settings.
func (m *Model) ExportSVG(ctx context.Context) ([]byte, error) {
	return m.Export(ctx, render.FormatSVG, m.ExportSettings())
}

// ExportPNG renders the diagram as PNG with the default settings.
func (m *Model) ExportPNG(ctx context.Context) ([]byte, error) {
	return m.Export(ctx, render.FormatPNG, m.ExportSettings())
}

// Print hands the diagram to the configured printer.
func (m *Model) Print(ctx context.Context) error {
	if m.opts.Printer == nil {
		return errors.New(errors.ErrCodeContract, "print: no printer configured")
	}
	return render.Print(ctx, m.Scene(), m.opts.Printer, render.DefaultPrintSettings(m.vp.Zoom()))
}
